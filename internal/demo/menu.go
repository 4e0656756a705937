package demo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/smartcontractkit/phe/internal/logger"
)

const menu = `Choose an operation:
1. Homomorphic Addition (Paillier)
2. Homomorphic Multiplication (RSA)
3. Exit
Enter your choice: `

// RunMenu reads whitespace separated choices and operands from in and writes prompts and reports to out, until the
// user chooses to exit or in is exhausted. Invalid input is reported and the menu is shown again. Only read errors
// from in and write errors to out are returned; the first failed write ends the menu.
func (s *Session) RunMenu(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	w := &errWriter{w: out}

	next := func(prompt string) (string, bool) {
		if fmt.Fprint(w, prompt); w.err != nil {
			return "", false
		}
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	}
	stop := func() error {
		if w.err != nil {
			return w.err
		}
		return scanner.Err()
	}

	for {
		choice, ok := next(menu)
		if !ok {
			fmt.Fprintln(w)
			return stop()
		}

		var report io.WriterTo
		var err error
		switch choice {
		case "1":
			var values []string
			if values, ok = readMessages(next, w); !ok {
				return stop()
			}
			if values == nil {
				continue
			}
			report, err = s.PaillierAddition(values)
		case "2":
			a, ok := next("Enter the first plaintext (data1): ")
			if !ok {
				return stop()
			}
			b, ok := next("Enter the second plaintext (data2): ")
			if !ok {
				return stop()
			}
			report, err = s.RSAMultiplication(a, b)
		case "3":
			fmt.Fprintln(w, "Thanks for using Homomorphic Encryption. Have a nice day!")
			return w.err
		default:
			fmt.Fprintln(w, "Invalid choice! Please choose 1, 2 or 3.")
			continue
		}

		if err != nil {
			s.lggr.Warn("homomorphic computation failed", logger.Fields{"choice": choice, "error": err.Error()})
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		if _, err := report.WriteTo(w); err != nil {
			return err
		}
	}
}

// readMessages returns nil values (and ok) if the message count is invalid, and !ok if in is exhausted.
func readMessages(next func(string) (string, bool), out io.Writer) ([]string, bool) {
	text, ok := next("Enter the number of messages: ")
	if !ok {
		return nil, false
	}
	count, err := strconv.Atoi(text)
	if err != nil || count < 0 {
		fmt.Fprintf(out, "Invalid number of messages: %q\n", text)
		return nil, true
	}

	values := []string{}
	fmt.Fprintf(out, "Enter %d messages (can be negative):\n", count)
	for range count {
		v, ok := next("")
		if !ok {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// errWriter keeps the first write error and drops every write after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
