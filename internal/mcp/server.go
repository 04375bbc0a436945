package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// Server defines the interface for an MCP server transport.
type Server interface {
	Start(ctx context.Context)
	ReadChannel() <-chan JSONRPCRequest
	WriteChannel() chan<- JSONRPCResponse
	Wait()
	Close() error
}

// StdioServer implements the Server interface using newline-delimited
// JSON-RPC messages over a reader/writer pair, normally stdin/stdout.
type StdioServer struct {
	reader      io.Reader
	writer      io.Writer
	readChan    chan JSONRPCRequest
	writeChan   chan JSONRPCResponse
	shutdownCtx context.Context
	cancelFunc  context.CancelFunc
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// NewStdioServer creates a new StdioServer instance.
func NewStdioServer(reader io.Reader, writer io.Writer, logger *slog.Logger) *StdioServer {
	ctx, cancel := context.WithCancel(context.Background())
	return &StdioServer{
		reader:      reader,
		writer:      writer,
		readChan:    make(chan JSONRPCRequest),
		writeChan:   make(chan JSONRPCResponse),
		shutdownCtx: ctx,
		cancelFunc:  cancel,
		logger:      logger,
	}
}

// Start begins the reader and writer goroutines.
func (s *StdioServer) Start(ctx context.Context) {
	s.wg.Add(2)

	go func() {
		defer s.wg.Done()
		defer close(s.readChan)
		scanner := bufio.NewScanner(s.reader)
		// Large resource payloads exceed the default 64K scanner buffer.
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			select {
			case <-s.shutdownCtx.Done():
				return
			default:
			}
			line := scanner.Bytes()
			var request JSONRPCRequest
			if err := json.Unmarshal(line, &request); err != nil {
				s.logger.Warn("Skipping malformed request line", "error", err)
				continue
			}
			select {
			case s.readChan <- request:
			case <-s.shutdownCtx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && err != io.EOF {
			s.logger.Error("Error reading from transport", "error", err)
		}
		// Reader exhausted: signal shutdown so Wait unblocks.
		s.cancelFunc()
	}()

	go func() {
		defer s.wg.Done()
		writer := bufio.NewWriter(s.writer)
		for {
			select {
			case <-s.shutdownCtx.Done():
				_ = writer.Flush()
				return
			case response, ok := <-s.writeChan:
				if !ok {
					_ = writer.Flush()
					return
				}
				respBytes, err := json.Marshal(response)
				if err != nil {
					s.logger.Error("Failed to marshal response", "error", err, "id", response.ID)
					continue
				}
				if _, err := writer.Write(respBytes); err != nil {
					s.logger.Error("Failed to write response", "error", err)
					s.cancelFunc()
					return
				}
				if _, err := writer.WriteString("\n"); err != nil {
					s.logger.Error("Failed to write message delimiter", "error", err)
					s.cancelFunc()
					return
				}
				if err := writer.Flush(); err != nil {
					s.logger.Error("Failed to flush response", "error", err)
					s.cancelFunc()
					return
				}
			}
		}
	}()
}

// ReadChannel returns the channel for receiving incoming requests.
func (s *StdioServer) ReadChannel() <-chan JSONRPCRequest {
	return s.readChan
}

// WriteChannel returns the channel for sending outgoing responses.
func (s *StdioServer) WriteChannel() chan<- JSONRPCResponse {
	return s.writeChan
}

// Wait blocks until the server has shut down completely.
func (s *StdioServer) Wait() {
	<-s.shutdownCtx.Done()
	s.wg.Wait()
}

// Close initiates a graceful shutdown of the server.
func (s *StdioServer) Close() error {
	s.cancelFunc()
	s.Wait()
	close(s.writeChan)
	return nil
}
