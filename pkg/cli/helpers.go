package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"

	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("flag"); name != "" {
				return name
			}
			return f.Name
		})
	})
	return validate
}

// validateOptions checks the validate tags of an option struct and reports
// every failing field in one configuration error.
func validateOptions(opts any) error {
	err := getValidator().Struct(opts)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Wrap(errors.ErrCodeInternal, "failed to validate options", err)
	}

	var messages []string
	for _, vErr := range validationErrors {
		flag := "--" + vErr.Field()
		switch vErr.Tag() {
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s], but got %q", flag, vErr.Param(), vErr.Value()))
		case "file":
			messages = append(messages, fmt.Sprintf("%s must be an existing file, but got %q", flag, vErr.Value()))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", flag, vErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed validation on tag %q", flag, vErr.Tag()))
		}
	}
	return errors.New(errors.ErrCodeInvalidConfiguration, "invalid flags: "+strings.Join(messages, "; "))
}

// stdout is the writer of the root command, os.Stdout unless replaced.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
