package open

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/convosync/convosync/internal/index"
)

// OpenDocument opens an indexed document's source export in $EDITOR,
// falling back to less when $EDITOR is unset.
func OpenDocument(db *index.DB, docKey string) error {
	doc, err := db.GetDocumentByKey(docKey)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("document not found: %s", docKey)
	}

	filePath := doc.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := exec.Command(editor, filePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
