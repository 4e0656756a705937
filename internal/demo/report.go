package demo

import (
	"bytes"
	"fmt"
	"io"

	"github.com/smartcontractkit/phe/internal/bigint"
)

// AdditionReport holds every stage of a homomorphic addition run.
type AdditionReport struct {
	Values      []bigint.Int // signed inputs
	Ciphertexts []bigint.Int // one per input, each with an independent blinding factor
	Sum         bigint.Int   // product of the ciphertexts mod n^2
	Decrypted   bigint.Int   // decoded decryption of Sum
	Expected    bigint.Int   // sum of Values
	Verified    bool
}

var _ io.WriterTo = &AdditionReport{}

func (r *AdditionReport) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for i, c := range r.Ciphertexts {
		fmt.Fprintf(&buf, "Encrypted Data %d: %s\n", i, c)
	}
	fmt.Fprintf(&buf, "Encrypted Result (Addition of ciphertexts): %s\n", r.Sum)
	fmt.Fprintf(&buf, "Decrypted Result (Addition of ciphertexts are decryption): %s\n", r.Decrypted)
	fmt.Fprintf(&buf, "Expected Result: %s\n", r.Expected)
	if r.Verified {
		buf.WriteString("Homomorphic additions verified correctly!\n")
	} else {
		buf.WriteString("Error in sum\n")
	}
	return buf.WriteTo(w)
}

// MultiplicationReport holds every stage of a homomorphic multiplication run.
type MultiplicationReport struct {
	Operands    [2]bigint.Int
	Ciphertexts [2]bigint.Int
	Product     bigint.Int // product of the ciphertexts mod n
	Decrypted   bigint.Int
	Expected    bigint.Int // product of the operands mod n
	Verified    bool
}

var _ io.WriterTo = &MultiplicationReport{}

func (r *MultiplicationReport) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Encrypted Data 1: %s\n", r.Ciphertexts[0])
	fmt.Fprintf(&buf, "Encrypted Data 2: %s\n", r.Ciphertexts[1])
	fmt.Fprintf(&buf, "Encrypted Result (Multiplication of ciphertexts): %s\n", r.Product)
	fmt.Fprintf(&buf, "Decrypted Result (Multiplication of original data): %s\n", r.Decrypted)
	fmt.Fprintf(&buf, "Expected Result: %s\n", r.Expected)
	if r.Verified {
		buf.WriteString("Homomorphic property holds! Encrypted computation successful.\n")
	} else {
		buf.WriteString("Error in homomorphic computation.\n")
	}
	return buf.WriteTo(w)
}
