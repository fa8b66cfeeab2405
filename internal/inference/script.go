package inference

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/minsukim/jikimi/internal/decision"
)

// ScriptProvider implements Provider using a Python TFLite classifier
// subprocess. Frames are sent as length-prefixed JPEG bytes; the service
// answers with one JSON line per frame.
type ScriptProvider struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewScriptProvider creates a new subprocess-backed provider.
// The Python process is started lazily on first classification.
func NewScriptProvider(config Config) (*ScriptProvider, error) {
	scriptPath := findClassifierScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("classifier_service.py not found")
	}

	return &ScriptProvider{
		config: config,
	}, nil
}

// Classify sends a frame to the classifier service and parses its
// predictions.
func (p *ScriptProvider) Classify(frame *gocv.Mat) ([]decision.Prediction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := p.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := p.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := p.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Predictions []decision.Prediction `json:"predictions"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	p.lastUsed = time.Now()
	p.resetIdleTimer()

	return response.Predictions, nil
}

// Close shuts down the Python process.
func (p *ScriptProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown()
}

func (p *ScriptProvider) ensureStarted() error {
	if p.started {
		return nil
	}

	scriptPath := findClassifierScript()
	if scriptPath == "" {
		return fmt.Errorf("classifier_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := []string{scriptPath}
	if p.config.ModelPath != "" {
		args = append(args, "--model", p.config.ModelPath)
	}
	if p.config.TopK > 0 {
		args = append(args, "--top-k", fmt.Sprintf("%d", p.config.TopK))
	}

	p.cmd = exec.Command(pythonPath, args...)

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	p.cmd.Stderr = os.Stderr

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("start classifier service: %w", err)
	}

	p.stdin = stdin
	p.stdout = bufio.NewReader(stdout)
	p.started = true
	p.lastUsed = time.Now()

	return nil
}

func (p *ScriptProvider) shutdown() error {
	if !p.started {
		return nil
	}

	if p.idleTimer != nil {
		p.idleTimer.Stop()
		p.idleTimer = nil
	}

	if p.stdin != nil {
		p.stdin.Close()
	}

	err := p.cmd.Wait()
	p.started = false
	p.cmd = nil
	p.stdin = nil
	p.stdout = nil

	return err
}

func (p *ScriptProvider) resetIdleTimer() {
	if p.idleTimer != nil {
		p.idleTimer.Stop()
	}
	p.idleTimer = time.AfterFunc(30*time.Second, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.shutdown()
	})
}

func findClassifierScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/classifier_service.py",
		"../scripts/classifier_service.py",
		filepath.Join(execDir, "scripts/classifier_service.py"),
		filepath.Join(os.Getenv("HOME"), ".jikimi/scripts/classifier_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".jikimi/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
