package fcb

import "fmt"

// SignatureMismatchError indicates a block whose tag bytes are not the FCB
// signature.
type SignatureMismatchError struct {
	Expected []byte
	Actual   []byte
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("tag value %q does not match the expected value %q", e.Actual, e.Expected)
}

// ConfigValidationError wraps any failure met while building a segment from a
// configuration document.
type ConfigValidationError struct {
	Err error
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("cannot load FCB configuration: %v", e.Err)
}

func (e *ConfigValidationError) Unwrap() error {
	return e.Err
}

// SchemaGenerationError wraps any failure met while deriving a schema.
type SchemaGenerationError struct {
	Family   string
	Revision string
	Err      error
}

func (e *SchemaGenerationError) Error() string {
	return fmt.Sprintf("family %s or revision %s is not supported: %v", e.Family, e.Revision, e.Err)
}

func (e *SchemaGenerationError) Unwrap() error {
	return e.Err
}
