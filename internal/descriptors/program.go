package descriptors

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/lingnexus/lingnexus/internal/models"
)

// defaultProgramTimeout is the per-identifier timeout when none is specified.
const defaultProgramTimeout = 30 * time.Second

//go:embed scripts/rdkit_descriptors.py
var rdkitScript string

// RDKitScript returns the embedded descriptor script.
func RDKitScript() string { return rdkitScript }

// ProgramArgs holds the arguments for creating a program provider.
type ProgramArgs struct {
	// Command is the program to execute. Defaults to python3.
	Command string
	// Args are passed to Command. When empty, the embedded RDKit script is
	// passed with -c.
	Args []string
	// Timeout bounds one identifier. Defaults to 30s.
	Timeout time.Duration
}

// ProgramProvider runs an external program once per identifier. The
// identifier is written to stdin; the program prints one JSON object on
// stdout:
//
//	{"valid": true, "descriptors": {"molecular_weight": 180.2, ...}}
//	{"valid": false, "reason": "unparseable SMILES"}
//
// A non-zero exit, a timeout or unparseable output is an engine fault.
type ProgramProvider struct {
	command string
	args    []string
	timeout time.Duration
}

// NewProgramProvider creates a [ProgramProvider].
func NewProgramProvider(args ProgramArgs) (*ProgramProvider, error) {
	command := args.Command
	if command == "" {
		command = "python3"
	}
	if strings.TrimSpace(command) != command {
		return nil, fmt.Errorf("descriptor command %q must not contain surrounding whitespace", command)
	}

	argv := args.Args
	if len(argv) == 0 {
		argv = []string{"-c", rdkitScript}
	}

	timeout := args.Timeout
	if timeout <= 0 {
		timeout = defaultProgramTimeout
	}

	return &ProgramProvider{
		command: command,
		args:    argv,
		timeout: timeout,
	}, nil
}

func (p *ProgramProvider) ID() string {
	return "program:" + p.command + " " + strings.Join(p.args, " ")
}

// Command returns the program this provider runs.
func (p *ProgramProvider) Command() string { return p.command }

func (p *ProgramProvider) Compute(ctx context.Context, id models.CandidateIdentifier) (models.DescriptorResult, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, p.command, p.args...)
	cmd.Stdin = strings.NewReader(string(id) + "\n")
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return models.DescriptorResult{}, fmt.Errorf("descriptor program timed out after %s", p.timeout)
		}
		if errOutput := strings.TrimSpace(stderr.String()); errOutput != "" {
			return models.DescriptorResult{}, fmt.Errorf("descriptor program failed: %w; stderr: %s", err, errOutput)
		}
		return models.DescriptorResult{}, fmt.Errorf("descriptor program failed: %w", err)
	}

	result, err := decodeResult(stdout.Bytes())
	if err != nil {
		return models.DescriptorResult{}, err
	}

	slog.Debug("computed descriptors", "identifier", id, "valid", result.Valid)
	return result, nil
}

func decodeResult(out []byte) (models.DescriptorResult, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return models.DescriptorResult{}, errors.New("descriptor program produced no output")
	}

	var result models.DescriptorResult
	if err := json.Unmarshal(out, &result); err != nil {
		return models.DescriptorResult{}, fmt.Errorf("parsing descriptor program output: %w", err)
	}
	if !result.Valid {
		if result.Reason == "" {
			result.Reason = "invalid identifier"
		}
		result.Record = models.DescriptorRecord{}
	}
	return result, nil
}
