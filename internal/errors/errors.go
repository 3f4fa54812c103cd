package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/neuroflow/internal/config"
	"github.com/julianstephens/neuroflow/internal/keyring"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/logger"
)

var hints = []struct {
	target error
	hint   string
}{
	{kv.ErrUnknownDriver, "valid drivers are sqlite, file, postgres, redis and s3"},
	{config.ErrEmbeddedCredentials, "store the connection string with 'neuroflow keyring set' or NEUROFLOW_DB_CONNECTION"},
	{keyring.ErrKeyringUnavailable, "set NEUROFLOW_DB_CONNECTION or NEUROFLOW_REDIS_PASSWORD instead"},
}

// Format formats an error message with a consistent "Error: " prefix and,
// for known setup errors, a hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			msg += "\nHint: " + h.hint
			break
		}
	}
	return msg
}

// Fatal logs err and exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
