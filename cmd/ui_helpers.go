// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"atomicgo.dev/cursor"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// startInlineSpinner animates frames followed by text on the current line
// until the returned stop function is called. Stopping clears the line and
// restores the cursor.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	cursor.Hide()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		width := 0
		for i := 0; ; i++ {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			width = max(width, len(line))
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%*s\r", width, "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			cursor.Show()
		})
	}
}

// withSpinner runs fn behind an inline spinner shown for at least minShow.
func withSpinner(w io.Writer, text string, minShow time.Duration, fn func() error) error {
	start := time.Now()
	stop := startInlineSpinner(w, text, spinnerFrames, 100*time.Millisecond)
	defer stop()

	err := fn()
	if err == nil {
		if elapsed := time.Since(start); elapsed < minShow {
			time.Sleep(minShow - elapsed)
		}
	}
	return err
}
