package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

func TestLoadCategories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`categories:
  - id: chat
    actions:
      - id: like
        title: Like
      - id: reply
        type: text
        title: Reply
        button_title: Send
        placeholder: Type a reply
  - id: empty
`), 0o644))

	categories, err := LoadCategories(path)
	require.NoError(t, err)
	assert.Equal(t, []notify.Category{
		notify.NewCategory("chat",
			notify.NewAction("like", "Like"),
			notify.NewTextInputAction("reply", "Reply", "Send", "Type a reply"),
		),
		notify.NewCategory("empty"),
	}, categories)
}

func TestLoadCategories_EmptyPath(t *testing.T) {
	t.Parallel()
	categories, err := LoadCategories("")
	require.NoError(t, err)
	assert.Nil(t, categories)
}

func TestLoadCategories_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadCategories(filepath.Join(t.TempDir(), "missing.yaml"))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "categories file does not exist", validationErr.Message)
}

func TestLoadCategories_CommentsOnly(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# no categories yet\n"), 0o644))

	categories, err := LoadCategories(path)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestParseCategories_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		yaml      string
		wantField string
		wantMsg   string
		wantLine  bool
	}{
		"syntax error": {
			yaml:     "categories:\n  - id: [broken\n",
			wantMsg:  "invalid YAML",
			wantLine: true,
		},
		"list at the root": {
			yaml:     "- id: c\n",
			wantMsg:  "expected a mapping with a top-level 'categories' list",
			wantLine: true,
		},
		"missing category id": {
			yaml:      "categories:\n  - actions: []\n",
			wantField: "categories[0].id",
			wantMsg:   "is required",
		},
		"missing action title": {
			yaml:      "categories:\n  - id: c\n    actions:\n      - id: a\n",
			wantField: "categories[0].actions[0].title",
			wantMsg:   "is required",
		},
		"text action without button title": {
			yaml:      "categories:\n  - id: c\n    actions:\n      - id: a\n        title: A\n        type: text\n",
			wantField: "categories[0].actions[0].button_title",
			wantMsg:   "is required for text actions",
		},
		"unknown action type": {
			yaml:      "categories:\n  - id: c\n    actions:\n      - id: a\n        title: A\n        type: slider\n",
			wantField: "categories[0].actions[0].type",
			wantMsg:   "must be one of: button, text",
		},
		"duplicate category": {
			yaml:      "categories:\n  - id: c\n  - id: c\n",
			wantField: "categories",
			wantMsg:   "duplicate",
		},
		"wrong shape": {
			yaml:    "categories: nope\n",
			wantMsg: "cannot unmarshal",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCategories([]byte(tc.yaml), "categories.yaml")
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "categories.yaml", validationErr.FilePath)
			if tc.wantLine {
				assert.Greater(t, validationErr.Line, 0)
			}
			assert.Equal(t, tc.wantField, validationErr.Field)
			assert.Contains(t, validationErr.Message, tc.wantMsg)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with line": {
			err:  ValidationError{FilePath: "c.yaml", Line: 3, Column: 5, Message: "bad"},
			want: "c.yaml:3:5: bad",
		},
		"with field": {
			err:  ValidationError{FilePath: "c.yaml", Field: "categories[0].id", Message: "is required"},
			want: "c.yaml: field 'categories[0].id': is required",
		},
		"plain": {
			err:  ValidationError{FilePath: "c.yaml", Message: "permission denied"},
			want: "c.yaml: permission denied",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestYAMLPosition(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		msg      string
		wantLine int
		wantCol  int
	}{
		"line and column": {msg: "yaml: line 5: column 3: bad", wantLine: 5, wantCol: 3},
		"line only":       {msg: "yaml: line 2: could not find expected ':'", wantLine: 2, wantCol: 1},
		"no position":     {msg: "something else", wantLine: 0, wantCol: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			line, col := yamlPosition(tc.msg)
			assert.Equal(t, tc.wantLine, line)
			assert.Equal(t, tc.wantCol, col)
		})
	}
}

func TestYAMLReason(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		msg  string
		want string
	}{
		"positioned":    {msg: "yaml: line 2: could not find expected ':'", want: "could not find expected ':'"},
		"unpositioned":  {msg: "yaml: control characters are not allowed", want: "control characters are not allowed"},
		"not from yaml": {msg: "read failed", want: "read failed"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, yamlReason(tc.msg))
		})
	}
}
