package infra

import (
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessInfo is a snapshot of one running process, for the status command.
type ProcessInfo struct {
	PID        int
	Name       string
	RSSBytes   uint64
	CPUPercent float64
	StartedAt  time.Time
}

// FindByName returns PIDs of processes matching the pattern (case-insensitive).
func FindByName(pattern string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []int
	patternLower := strings.ToLower(pattern)
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if strings.EqualFold(name, pattern) || strings.Contains(strings.ToLower(name), patternLower) {
			found = append(found, int(p.Pid))
		}
	}
	return found, nil
}

// IsRunning checks if a PID exists and is running.
func IsRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 only checks existence
	return proc.Signal(syscall.Signal(0)) == nil
}

// SelfInfo returns resource usage for the current process.
func SelfInfo() (ProcessInfo, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessInfo{}, err
	}
	info := ProcessInfo{PID: os.Getpid()}
	if name, err := p.Name(); err == nil {
		info.Name = name
	}
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		info.RSSBytes = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		info.CPUPercent = cpu
	}
	if created, err := p.CreateTime(); err == nil {
		info.StartedAt = time.UnixMilli(created)
	}
	return info, nil
}
