package notice

import "fmt"

// Copied is the success message for a clipboard write of label's code.
func Copied(label string) string { return fmt.Sprintf(fmtCopied, label) }

// CopyFailed is the error message for a failed clipboard write.
func CopyFailed(label string) string { return fmt.Sprintf(fmtCopyFailed, label) }

// Deleted is the success message for clearing one editor.
func Deleted(label string) string { return fmt.Sprintf(fmtDeleted, label) }
