package differ

import (
	"fmt"

	"github.com/ditashi/jsbeautifier-go/jsbeautifier"
)

// Beautifier normalizes source text before it is diffed
type Beautifier interface {
	Beautify(src string) (string, error)
}

// JSBeautifier pretty-prints JavaScript so minified bundles diff line by line
type JSBeautifier struct{}

// Beautify reformats src. The underlying formatter can panic on hostile input,
// which is reported as an error.
func (JSBeautifier) Beautify(src string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("beautifier panic: %v", r)
		}
	}()
	opts := jsbeautifier.DefaultOptions()
	return jsbeautifier.Beautify(&src, opts)
}
