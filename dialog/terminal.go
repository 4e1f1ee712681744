package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// Terminal implements Dialog with numbered menus and line prompts on the
// controlling terminal, used when no display helper is available.
// Ctrl-C and Ctrl-D cancel.
type Terminal struct{}

func (Terminal) ChooseOne(_ context.Context, title string, options []string) (string, error) {
	fmt.Println(title)
	for i, opt := range options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}

	rl, err := readline.New("> ")
	if err != nil {
		return "", err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return "", cancelOr(err)
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > len(options) {
			fmt.Printf("Please enter a number between 1 and %d.\n", len(options))
			continue
		}
		return options[n-1], nil
	}
}

func (Terminal) PromptText(_ context.Context, label string) (string, error) {
	rl, err := readline.New(label + ": ")
	if err != nil {
		return "", err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", cancelOr(err)
	}
	return strings.TrimSpace(line), nil
}

func (Terminal) Info(_ context.Context, text string) {
	fmt.Println(text)
}

func (Terminal) Error(_ context.Context, text string) {
	fmt.Fprintln(os.Stderr, text)
}

func cancelOr(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return ErrCancelled
	}
	return err
}
