package jadn

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeFormat reports a structural/shape violation: wrong fields presence,
	// a bad name pattern, or a reserved-name collision.
	CodeFormat = "format_error"
	// CodeOption reports an option that is not allowed for the basetype, a
	// missing required option, bad cardinality ordering, or an unknown format.
	CodeOption = "option_error"
	// CodeDuplicate reports a tag or name collision within a compound type.
	CodeDuplicate = "duplicate_error"
	// CodeValidation reports an instance that does not conform to its type.
	CodeValidation = "validation_error"
	// CodeType reports a host-type mismatch or an unresolvable type reference.
	CodeType = "type_error"
	// CodeValue reports a violated numeric or length bound.
	CodeValue = "value_error"
)

// Issue represents a single schema-verification or instance-validation entry.
type Issue struct {
	Path    string // Offending definition/field (for example: Command.target).
	Code    string // One of the codes listed above.
	Message string
}

func (i Issue) Error() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Message)
	}
	return fmt.Sprintf("%s at %s: %s", i.Code, i.Path, i.Message)
}

// Issues is a collection of verification/validation errors that implements
// error. Verification routines accumulate every problem into an Issues value
// so schema authors see all of them at once; fail-fast callers take First.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// First returns the first issue as an error, or nil when the list is empty.
func (iss Issues) First() error {
	if len(iss) == 0 {
		return nil
	}
	return iss[0]
}

// OrNil converts an Issues value into an error, mapping the empty list to nil.
func (iss Issues) OrNil() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var i Issue
	if errors.As(err, &i) {
		return Issues{i}, true
	}
	return nil, false
}

func issuef(code, path, format string, args ...any) Issue {
	return Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)}
}
