package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackTrace(t *testing.T) {
	cases := map[string]struct {
		err       error
		wantError string
	}{
		"New gives us a stacktrace": {
			err:       Wrap(ErrDuplicate, "name"),
			wantError: "name: duplicate",
		},
		"Wrapping stderr gives us a stacktrace": {
			err:       Wrap(fmt.Errorf("foo"), "standard"),
			wantError: "standard: foo",
		},
		"Wrapping pkg/errors gives us clean stacktrace": {
			err:       Wrap(errors.New("bar"), "pkg"),
			wantError: "pkg: bar",
		},
		"Newf is wrapping too": {
			err:       ErrInvalidInput.Newf("value %d", 7),
			wantError: "value 7: invalid input",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantError, tc.err.Error())

			assert.NotNil(t, stackTrace(tc.err))

			fullStack := fmt.Sprintf("%+v", tc.err)
			if !strings.Contains(fullStack, "stacktrace_test.go") {
				t.Logf("Stack trace below\n----%s\n----", fullStack)
				t.Error("full stack trace should contain this test source code information")
			}
			if !strings.Contains(fullStack, tc.wantError) {
				t.Logf("Stack trace below\n----%s\n----", fullStack)
				t.Error("full stack trace should contain the error description")
			}

			tinyStack := fmt.Sprintf("%v", tc.err)
			assert.Equal(t, tc.wantError, tinyStack)
		})
	}
}
