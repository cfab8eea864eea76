package cli

import (
	"bufio"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

const ExitCommand = "exit"

// MainLoop feeds input lines to execP until exit, EOF or signal.
// Interactive prompt with completion when stdin is terminal.
func MainLoop(tag string, execP func(line string), complete func(d prompt.Document) []prompt.Suggest) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		for range signalCh {
			os.Exit(0)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		exitExec := func(line string) {
			if IsExit(line) {
				restoreTerminal()
				os.Exit(0)
			}
			execP(line)
		}
		prompt.New(exitExec, complete,
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
		restoreTerminal()
	} else {
		if err := RunLines(os.Stdin, execP); err != nil {
			log.Fatal(err)
		}
	}
}

// RunLines calls execP for every non-empty trimmed line of r, stops at exit.
func RunLines(r io.Reader, execP func(line string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if IsExit(line) {
			return nil
		}
		execP(line)
	}
	return scanner.Err()
}

func IsExit(line string) bool { return strings.TrimSpace(line) == ExitCommand }

// go-prompt may leave terminal without echo after Run
func restoreTerminal() {
	rawModeOff := exec.Command("/bin/stty", "-raw", "echo")
	rawModeOff.Stdin = os.Stdin
	_ = rawModeOff.Run()
}
