package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"
)

var ErrNoPlayer = errors.New("audio: no player command available")

// Player saves audio clips and plays them in the background.
type Player interface {
	Play(name string, data []byte) (string, error)
	Stop()
}

type NoopPlayer struct{}

func (NoopPlayer) Play(string, []byte) (string, error) { return "", nil }
func (NoopPlayer) Stop()                               {}

// ExecPlayer writes each clip under Dir and launches Command with the
// file path as its last argument. Only one clip plays at a time.
type ExecPlayer struct {
	Dir     string
	Command []string

	mu      sync.Mutex
	current *exec.Cmd
	now     func() time.Time
}

func NewExecPlayer(dir string, command string) *ExecPlayer {
	cmd := strings.Fields(command)
	if len(cmd) == 0 {
		cmd = DefaultCommand()
	}
	return &ExecPlayer{Dir: dir, Command: cmd, now: time.Now}
}

// DefaultCommand picks a stock player for the current platform.
func DefaultCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"afplay"}
	case "linux":
		for _, candidate := range []string{"paplay", "aplay", "ffplay"} {
			if _, err := exec.LookPath(candidate); err == nil {
				if candidate == "ffplay" {
					return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}
				}
				return []string{candidate}
			}
		}
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func (p *ExecPlayer) Save(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("audio: empty clip")
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("audio: create dir: %w", err)
	}
	clean := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if clean == "" {
		clean = "clip"
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	path := filepath.Join(p.Dir, fmt.Sprintf("%s-%d.wav", clean, now().UnixNano()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("audio: write clip: %w", err)
	}
	return path, nil
}

func (p *ExecPlayer) Play(name string, data []byte) (string, error) {
	path, err := p.Save(name, data)
	if err != nil {
		return "", err
	}
	if len(p.Command) == 0 {
		return path, ErrNoPlayer
	}
	p.Stop()

	args := append(append([]string{}, p.Command[1:]...), path)
	cmd := exec.Command(p.Command[0], args...)
	if err := cmd.Start(); err != nil {
		return path, fmt.Errorf("audio: start player: %w", err)
	}
	p.mu.Lock()
	p.current = cmd
	p.mu.Unlock()
	go func() {
		_ = cmd.Wait()
		p.mu.Lock()
		if p.current == cmd {
			p.current = nil
		}
		p.mu.Unlock()
	}()
	return path, nil
}

// Stop kills the clip that is currently playing, if any.
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	cmd := p.current
	p.current = nil
	p.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
