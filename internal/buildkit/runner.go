package buildkit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one external command invocation.
type Cmd struct {
	Path   string
	Args   []string
	Env    map[string]string // additional env vars
	Dir    string            // working directory
	Stream bool              // if true, stream stdout/err via scanner
}

// Runner executes a command. The default implementation shells out; tests
// substitute a recorder.
type Runner func(ctx context.Context, c Cmd) error

// RunCmd is the default Runner.
func RunCmd(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	// inherit environment
	cmd.Env = os.Environ()
	for k, v := range c.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	logCmd(c)
	if c.Stream {
		stdout, _ := cmd.StdoutPipe()
		stderr, _ := cmd.StderrPipe()
		if err := cmd.Start(); err != nil {
			return err
		}
		go stream(stdout)
		go stream(stderr)
		return cmd.Wait()
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func logCmd(c Cmd) {
	if zlog != nil {
		zlog.Info().Str("cmd", c.Path+" "+strings.Join(c.Args, " ")).Msg("exec")
		return
	}
	fmt.Println("+", c.Path, strings.Join(c.Args, " "))
}

func stream(r io.Reader) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	for s.Scan() {
		fmt.Println(s.Text())
	}
}
