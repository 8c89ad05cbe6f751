package errors

import "fmt"

// ParseError reports a malformed line in one of the input files.
// Parsing stops at the first ParseError; no partial result is returned.
type ParseError struct {
	Source  string // Input name, e.g. "relationships" or a file path
	Line    int    // 1-based line number
	Content string // The offending line, trimmed
	Reason  string // What is wrong with it
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Source, e.Line, e.Reason, e.Content)
}

// Code returns ErrCodeInvalidInput.
func (e *ParseError) Code() Code { return ErrCodeInvalidInput }

// MissingProviderError reports an AS placed in a layer for which no
// registered provider exists in the layer immediately above it.
type MissingProviderError struct {
	ASN   uint32
	Layer int
}

// Error implements the error interface.
func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("AS%d in layer %d has no provider in layer %d", e.ASN, e.Layer, e.Layer-1)
}

// Code returns ErrCodeMissingProvider.
func (e *MissingProviderError) Code() Code { return ErrCodeMissingProvider }

// InconsistentConeError reports a customer cone that references an ASN
// absent from the relationship data. When the owner itself is unknown,
// Member equals Owner.
type InconsistentConeError struct {
	Owner  uint32
	Member uint32
}

// Error implements the error interface.
func (e *InconsistentConeError) Error() string {
	if e.Owner == e.Member {
		return fmt.Sprintf("customer cone of AS%d: owner has no relationships", e.Owner)
	}
	return fmt.Sprintf("customer cone of AS%d references unknown AS%d", e.Owner, e.Member)
}

// Code returns ErrCodeInconsistentCone.
func (e *InconsistentConeError) Code() Code { return ErrCodeInconsistentCone }
