package main

import (
	"encoding/json"
	"errors"
	"fmt"

	junokeys "github.com/junocash/juno-keys"
	"github.com/junocash/juno-keys/errorcodes"
	"github.com/urfave/cli"
)

// jsonVersion is the version of the JSON envelope.
const jsonVersion = "v1"

const (
	statusOK  = "ok"
	statusErr = "err"
)

type okEnvelope struct {
	Version string      `json:"version"`
	Status  string      `json:"status"`
	Data    interface{} `json:"data"`
}

type errObject struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errEnvelope struct {
	Version string    `json:"version"`
	Status  string    `json:"status"`
	Error   errObject `json:"error"`
}

// requestError is an error raised by the command line layer itself, as
// opposed to the key derivation library.
type requestError struct {
	code string
	err  error
}

func (e *requestError) Error() string {
	return e.err.Error()
}

func (e *requestError) Unwrap() error {
	return e.err
}

func invalidRequest(format string, args ...interface{}) error {
	return &requestError{
		code: errorcodes.ErrCodeInvalidRequest,
		err:  fmt.Errorf(format, args...),
	}
}

func ioError(err error) error {
	return &requestError{code: errorcodes.ErrCodeIOError, err: err}
}

// errorCode returns the stable code reported for err.
func errorCode(err error) string {
	var rerr *requestError
	if errors.As(err, &rerr) {
		return rerr.code
	}

	return junokeys.ErrorCode(err)
}

// errReported is returned to the cli framework once an error has been
// written out, so that main only has to set the exit code.
var errReported = errors.New("error reported")

// actionDecorator reports the error of a command in the output format the
// user selected.
func actionDecorator(f func(*cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		err := f(ctx)
		if err == nil {
			return nil
		}

		return reportError(ctx, err)
	}
}

// onUsageError reports flag parsing failures as invalid requests instead of
// printing the usage text, which would break the JSON output.
func onUsageError(ctx *cli.Context, err error, _ bool) error {
	return reportError(ctx, invalidRequest("%w", err))
}

// reportError writes err in the output format the user selected and returns
// the error handed back to the cli framework. If the JSON envelope cannot be
// written, the error goes to stderr instead.
func reportError(ctx *cli.Context, err error) error {
	code := errorCode(err)

	if jsonMode(ctx) {
		printErr := printJSON(ctx, errEnvelope{
			Version: jsonVersion,
			Status:  statusErr,
			Error: errObject{
				Code:    code,
				Message: err.Error(),
			},
		})
		if printErr == nil {
			return fmt.Errorf("%w: %s", errReported, code)
		}

		err = fmt.Errorf("%w (%v)", err, printErr)
	}

	fmt.Fprintf(ctx.App.ErrWriter, "[juno-keys] %v\n", err)

	return fmt.Errorf("%w: %s", errReported, code)
}

// jsonMode reports whether --json was given, from any command depth.
func jsonMode(ctx *cli.Context) bool {
	return ctx.GlobalBool("json")
}

// printOK writes data wrapped in a successful envelope.
func printOK(ctx *cli.Context, data interface{}) error {
	return printJSON(ctx, okEnvelope{
		Version: jsonVersion,
		Status:  statusOK,
		Data:    data,
	})
}

// printJSON writes v as a single line of JSON.
func printJSON(ctx *cli.Context, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return ioError(fmt.Errorf("unable to encode json: %w", err))
	}

	if _, err := fmt.Fprintf(ctx.App.Writer, "%s\n", b); err != nil {
		return ioError(err)
	}

	return nil
}
