package osis

import (
	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/internal/fileutil"
)

// WriteFile stores a serialized document. The file is replaced atomically.
func WriteFile(path, text string) error {
	if err := fileutil.WriteAtomic(path, []byte(text), 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
