package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrNoAnswer is returned by Confirm when input ends before a valid answer.
var ErrNoAnswer = errors.New("no answer")

// Confirm writes question to out and reads answers from in until one is
// exactly "y" or "n". Any other answer prints a notice and asks again.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, question)

		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return false, fmt.Errorf("read answer: %w", err)
			}
			return false, ErrNoAnswer
		}

		switch sc.Text() {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		fmt.Fprintln(out, "Invalid Input...")
	}
}
