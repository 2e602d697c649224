package util

import (
	"fmt"
	"sync"
)

type SafePrinter struct {
	mu        sync.Mutex
	suspended bool
}

// Default is the shared SafePrinter used across the application to
// serialize terminal output between the progress subscriber and the
// watch-mode goroutines.
var Default = &SafePrinter{}

func (s *SafePrinter) Print(a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Print(a...)
}

func (s *SafePrinter) Printf(format string, a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Printf(format, a...)
}

func (s *SafePrinter) Println(a ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended {
		return
	}
	fmt.Println(a...)
}

// Suspend silences all subsequent prints until Resume is called. Used
// while promptui owns the terminal.
func (s *SafePrinter) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = true
}

// Resume re-enables printing after Suspend.
func (s *SafePrinter) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = false
}
