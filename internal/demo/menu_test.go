package demo

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/smartcontractkit/phe/internal/testimplementations/unsaferand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMenu(t *testing.T, s *Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, s.RunMenu(strings.NewReader(input), &out))
	return out.String()
}

func TestRunMenu(t *testing.T) {
	s := newSession(t, blindingFactors(2, 3, 5))

	expected := menu +
		"Enter the number of messages: " +
		"Enter 3 messages (can be negative):\n" +
		"Encrypted Data 0: 4825407373826030\n" +
		"Encrypted Data 1: 6030045313844373\n" +
		"Encrypted Data 2: 5180132265356607\n" +
		"Encrypted Result (Addition of ciphertexts): 1850349808936056\n" +
		"Decrypted Result (Addition of ciphertexts are decryption): 12\n" +
		"Expected Result: 12\n" +
		"Homomorphic additions verified correctly!\n" +
		menu +
		"Enter the first plaintext (data1): " +
		"Enter the second plaintext (data2): " +
		"Encrypted Data 1: 47459279912193\n" +
		"Encrypted Data 2: 28436377243342\n" +
		"Encrypted Result (Multiplication of ciphertexts): 62571942194467\n" +
		"Decrypted Result (Multiplication of original data): 63\n" +
		"Expected Result: 63\n" +
		"Homomorphic property holds! Encrypted computation successful.\n" +
		menu +
		"Thanks for using Homomorphic Encryption. Have a nice day!\n"

	assert.Equal(t, expected, runMenu(t, s, "1 3 5 -3 10\n2 7 9\n3\n"))
}

func TestRunMenuInvalidChoice(t *testing.T) {
	s := newSession(t, nil)

	out := runMenu(t, s, "0 4 abc 3")
	assert.Equal(t, 3, strings.Count(out, "Invalid choice! Please choose 1, 2 or 3.\n"))
	assert.Equal(t, 4, strings.Count(out, menu))
	assert.True(t, strings.HasSuffix(out, "Have a nice day!\n"))
}

func TestRunMenuRecoversFromBadOperands(t *testing.T) {
	s := newSession(t, unsaferand.New(t.Name()))

	out := runMenu(t, s, "1 x 1 2 1 five 2 -1 2 3")
	assert.Contains(t, out, "Invalid number of messages: \"x\"\n")
	assert.Contains(t, out, "Error: invalid decimal integer")
	assert.Contains(t, out, "Error: operand out of domain: negative plaintext -1\n")
	assert.True(t, strings.HasSuffix(out, "Have a nice day!\n"))
	assert.NotContains(t, out, "Encrypted Data")
}

func TestRunMenuZeroMessages(t *testing.T) {
	s := newSession(t, unsaferand.New(t.Name()))

	out := runMenu(t, s, "1 0 3")
	assert.Contains(t, out, "Encrypted Result (Addition of ciphertexts): 1\n")
	assert.Contains(t, out, "Homomorphic additions verified correctly!\n")
}

func TestRunMenuEndOfInput(t *testing.T) {
	s := newSession(t, unsaferand.New(t.Name()))

	for _, input := range []string{"", "1", "1 2 5", "2 7", "   \n"} {
		out := runMenu(t, s, input)
		assert.NotContains(t, out, "Have a nice day!", "input %q", input)
		assert.NotContains(t, out, "Encrypted Result", "input %q", input)
	}
}

func TestRunMenuReadError(t *testing.T) {
	s := newSession(t, nil)
	broken := errors.New("broken")

	var out bytes.Buffer
	err := s.RunMenu(iotest.ErrReader(broken), &out)
	require.ErrorIs(t, err, broken)
	assert.True(t, strings.HasPrefix(out.String(), menu))
}

// failingWriter accepts limit bytes, then fails every write.
type failingWriter struct {
	limit int
	err   error
	buf   bytes.Buffer
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if len(p) > f.limit {
		n := f.limit
		f.limit = 0
		f.buf.Write(p[:n])
		return n, f.err
	}
	f.limit -= len(p)
	return f.buf.Write(p)
}

func TestRunMenuWriteError(t *testing.T) {
	const (
		countPrompt = "Enter the number of messages: "
		data1Prompt = "Enter the first plaintext (data1): "
		data2Prompt = "Enter the second plaintext (data2): "
		exitMessage = "Thanks for using"
	)
	tests := []struct {
		name  string
		input string
		limit int
	}{
		{"menu prompt", "3", 0},
		{"invalid choice", "9 3", len(menu)},
		{"invalid message count", "1 x 3", len(menu) + len(countPrompt)},
		{"operation error", "2 a b 3", len(menu) + len(data1Prompt) + len(data2Prompt)},
		{"exit message", "3", len(menu)},
		{"end of input", "", len(menu)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, nil)
			broken := errors.New("broken")
			out := &failingWriter{limit: tt.limit, err: broken}

			err := s.RunMenu(strings.NewReader(tt.input), out)
			require.ErrorIs(t, err, broken)
			assert.Equal(t, tt.limit, out.buf.Len(), "output after the failed write")
			assert.NotContains(t, out.buf.String(), exitMessage)
		})
	}
}
