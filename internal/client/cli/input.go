package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetChoice asks until the answer is one of options (case-insensitive).
// An empty options list accepts anything. escape, when typed, is returned
// as is.
func GetChoice(reader *bufio.Reader, prompt string, options []string, escape string, w io.Writer) (string, error) {
	if len(options) > 0 {
		prompt = fmt.Sprintf("%s [%s]", prompt, strings.Join(options, ", "))
	}
	for {
		s, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return "", err
		}
		if escape != "" && s == escape {
			return s, nil
		}
		s = strings.ToLower(s)
		if len(options) == 0 || slices.Contains(options, s) {
			return s, nil
		}
		fmt.Fprintf(w, "Please choose one of: %s\n", strings.Join(options, ", "))
	}
}

// GetList is like GetChoice but accepts a comma separated list. Every item
// must be one of options.
func GetList(reader *bufio.Reader, prompt string, options []string, escape string, w io.Writer) ([]string, string, error) {
	if len(options) > 0 {
		prompt = fmt.Sprintf("%s (comma separated) [%s]", prompt, strings.Join(options, ", "))
	}
	for {
		s, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return nil, "", err
		}
		if escape != "" && s == escape {
			return nil, s, nil
		}

		items, bad := splitList(s, options)
		if bad == "" {
			return items, "", nil
		}
		fmt.Fprintf(w, "Unknown option %q\n", bad)
	}
}

func splitList(s string, options []string) ([]string, string) {
	items := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if len(options) > 0 && !slices.Contains(options, part) {
			return nil, part
		}
		items = append(items, part)
	}
	return items, ""
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
