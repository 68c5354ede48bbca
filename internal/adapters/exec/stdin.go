package exec

import (
	"io"
	"os"
	"time"

	"gancho/internal/domain"
	"gancho/internal/logging"
)

// ReadInput reads the event document from f, bounded by timeout so a host
// that never closes the pipe cannot hang the dispatch. On timeout it returns
// whatever bytes arrived; deciding whether they parse is the caller's job.
func ReadInput(f *os.File, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = domain.DefaultStdinTimeout
	}

	if err := f.SetReadDeadline(time.Now().Add(timeout)); err == nil {
		data, err := io.ReadAll(f)
		if err != nil {
			if !os.IsTimeout(err) {
				return nil, err
			}
			logging.Logger.Warn("Input read timed out, proceeding with partial data",
				"timeout", timeout,
				"bytes", len(data))
		}
		return data, nil
	}

	// The file does not support deadlines (a regular file, or a platform
	// without pollable pipes). Read in a goroutine instead; if it is still
	// stuck when the timer fires, the goroutine is abandoned. This process
	// exits within the dispatch, so nothing leaks for long.
	type readResult struct {
		data []byte
		err  error
	}
	results := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(f)
		results <- readResult{data: data, err: err}
	}()

	select {
	case res := <-results:
		return res.data, res.err
	case <-time.After(timeout):
		logging.Logger.Warn("Input read timed out, proceeding without data", "timeout", timeout)
		return nil, nil
	}
}
