package helpertest

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	fileMode   os.FileMode = 0o644
	scriptMode os.FileMode = 0o755
)

// TmpFolder is a temporary directory for test files. Errors are kept instead of returned.
type TmpFolder struct {
	Path  string
	Error error
}

// TmpFile is a file created in a TmpFolder
type TmpFile struct {
	Path  string
	Error error
}

// NewTmpFolder creates a temporary directory whose name starts with prefix
func NewTmpFolder(prefix string) *TmpFolder {
	if prefix == "" {
		prefix = "sitecheck"
	}

	path, err := os.MkdirTemp("", prefix)

	return &TmpFolder{Path: path, Error: err}
}

// Clean removes the folder with its content
func (tf *TmpFolder) Clean() error {
	if tf.Path == "" {
		return nil
	}

	return os.RemoveAll(tf.Path)
}

// JoinPath returns the path of name inside the folder
func (tf *TmpFolder) JoinPath(name string) string {
	return filepath.Join(tf.Path, name)
}

// CreateStringFile writes lines separated by line breaks to name
func (tf *TmpFolder) CreateStringFile(name string, lines ...string) *TmpFile {
	return tf.writeFile(name, strings.Join(lines, "\n"), fileMode)
}

// CreateScript writes an executable shell script running lines
func (tf *TmpFolder) CreateScript(name string, lines ...string) *TmpFile {
	content := strings.Join(append([]string{"#!/bin/sh"}, lines...), "\n") + "\n"

	return tf.writeFile(name, content, scriptMode)
}

func (tf *TmpFolder) writeFile(name, content string, mode os.FileMode) *TmpFile {
	if tf.Error != nil {
		return &TmpFile{Error: tf.Error}
	}

	path := tf.JoinPath(name)

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return &TmpFile{Error: err}
	}

	// WriteFile applies the umask
	if err := os.Chmod(path, mode); err != nil {
		return &TmpFile{Error: err}
	}

	return &TmpFile{Path: path}
}
