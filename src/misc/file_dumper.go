package misc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// FileDumper writes line-oriented text files, creating parent directories.
type FileDumper struct {
	path string
}

func (this *FileDumper) Init(path string) {
	this.path = path
}

func (this *FileDumper) Path() string {
	return this.path
}

// WriteLines truncates the file and writes one entry per line.
func (this *FileDumper) WriteLines(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(this.path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(this.path), err)
	}

	file, err := os.Create(this.path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}
