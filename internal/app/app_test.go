package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mkexpr/internal/app"
	"github.com/vk/mkexpr/internal/codegen"
	"github.com/vk/mkexpr/internal/config"
	"github.com/vk/mkexpr/internal/schema"
	"github.com/vk/mkexpr/internal/testutil"
)

const template = `${typechecker_includes}

TypeNode TypeChecker::computeType(NodeManager* nodeManager, TNode n, bool check, std::ostream* errOut)
{
  TypeNode typeNode;
  switch (n.getKind())
  {${typerules}
    default: Unhandled() << n.getKind();
  }
  return typeNode;
}

TypeNode TypeChecker::preComputeType(NodeManager* nodeManager, TNode n)
{
  TypeNode typeNode;
  switch (n.getKind())
  {${pretyperules}
    default: break;
  }
  return typeNode;
}

bool TypeChecker::computeIsConst(NodeManager* nodeManager, TNode n)
{
  switch (n.getKind())
  {${construles}
    default:;
  }
  return false;
}
`

const arithTOML = `
[theory]
typechecker_header = "arith.h"

[[kinds]]
type     = "operator"
name     = "PLUS"
typerule = "ArithTypeRule"
`

const bvTOML = `
[theory]
typechecker_header = "bv.h"

[[kinds]]
type      = "parameterized"
K1        = "BITVECTOR_EXTRACT"
K2        = "BITVECTOR_EXTRACT_OP"
typerule  = "BitVectorExtractTypeRule"

[[kinds]]
type      = "constant"
name      = "CONST_BITVECTOR"
construle = "BitVectorConstRule"

[[kinds]]
type = "sort"
name = "BITVECTOR_TYPE"
`

func TestRun_SingleSimpleTypeRule(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
	}

	// --- Act ---
	result := testutil.Run(t, files, []string{"arith.toml"})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, app.StateDone, result.App.State())

	out := result.Output
	require.Equal(t, 1, strings.Count(out, "case Kind::PLUS:"+"\n"+"        typeNode = ArithTypeRule::computeType(nodeManager, n, check, errOut);"))
	require.Equal(t, 1, strings.Count(out, "typeNode = ArithTypeRule::preComputeType(nodeManager, n);"))
	require.NotContains(t, out, "computeIsConst(nodeManager, n);\n")
	require.Equal(t, 1, strings.Count(out, "#include \"arith.h\""))
	require.Contains(t, out, "  {\n    default:;", "the construles fragment must be empty")
	require.Contains(t, result.LogOutput, "state=done")
}

func TestRun_OutputIsHeaderPlusBody(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
		"bv.toml":             bvTOML,
	}

	result := testutil.RunConfig(t, files, app.Config{
		KindsPaths: []string{"arith.toml", "bv.toml"},
		Command:    "mkexpr.py --kinds arith.toml bv.toml",
	})
	require.NoError(t, result.Err)

	header := string(codegen.Header(testutil.FixedYear, "mkexpr.py --kinds arith.toml bv.toml", filepath.Join(result.Dir, testutil.TemplateName)))
	require.True(t, strings.HasPrefix(result.Output, header))

	f := codegen.NewFragmentSet()
	require.NoError(t, f.AddTheory(&config.TheoryDocument{TypecheckerHeader: "arith.h", Kinds: []config.KindRecord{
		{Name: "PLUS", Type: config.KindOperator, TypeRule: "ArithTypeRule"},
	}}))
	require.NoError(t, f.AddTheory(&config.TheoryDocument{TypecheckerHeader: "bv.h", Kinds: []config.KindRecord{
		{Type: config.KindParameterized, K1: "BITVECTOR_EXTRACT", TypeRule: "BitVectorExtractTypeRule"},
		{Name: "CONST_BITVECTOR", Type: config.KindConstant, ConstRule: "BitVectorConstRule"},
		{Name: "BITVECTOR_TYPE", Type: config.KindSort},
	}}))

	placeholders := len(codegen.PlaceholderTypecheckerIncludes) + len(codegen.PlaceholderTypeRules) +
		len(codegen.PlaceholderPreTypeRules) + len(codegen.PlaceholderConstRules)
	fragments := len(f.Includes()) + len(f.TypeRules()) + len(f.PreTypeRules()) + len(f.ConstRules())
	body := result.Output[len(header):]
	require.Equal(t, len(template)-placeholders+fragments, len(body))
	require.NotContains(t, body, "BITVECTOR_EXTRACT_OP")
}

func TestRun_OrderFollowsInputOrder(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
		"bv.toml":             bvTOML,
	}

	ab := testutil.Run(t, files, []string{"arith.toml", "bv.toml"})
	ba := testutil.Run(t, files, []string{"bv.toml", "arith.toml"})
	require.NoError(t, ab.Err)
	require.NoError(t, ba.Err)

	order := func(out string, a, b string) bool {
		return strings.Index(out, a) < strings.Index(out, b)
	}
	assert.True(t, order(ab.Output, "case Kind::PLUS:", "case Kind::BITVECTOR_EXTRACT:"))
	assert.True(t, order(ba.Output, "case Kind::BITVECTOR_EXTRACT:", "case Kind::PLUS:"))
	assert.True(t, order(ab.Output, `#include "arith.h"`, `#include "bv.h"`))
	assert.True(t, order(ba.Output, `#include "bv.h"`, `#include "arith.h"`))
	assert.NotEqual(t, ab.Output, ba.Output)
}

func TestRun_Deterministic(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
		"bv.toml":             bvTOML,
	}
	first := testutil.Run(t, files, []string{"arith.toml", "bv.toml"})
	second := testutil.Run(t, files, []string{"arith.toml", "bv.toml"})
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)

	// Only the header differs between the two runs: it names each run's
	// temporary template path.
	bodyOf := func(r *testutil.HarnessResult) string {
		header := string(codegen.Header(testutil.FixedYear, "mkexpr --kinds ...", filepath.Join(r.Dir, testutil.TemplateName)))
		require.True(t, strings.HasPrefix(r.Output, header))
		return r.Output[len(header):]
	}
	require.Equal(t, bodyOf(first), bodyOf(second))
}

func TestRun_DuplicateHeadersAreKept(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"a.toml":              "[theory]\ntypechecker_header = \"x.h\"\n",
		"b.toml":              "[theory]\ntypechecker_header = \"x.h\"\n",
	}

	result := testutil.Run(t, files, []string{"a.toml", "b.toml"})

	require.NoError(t, result.Err)
	require.Equal(t, 2, strings.Count(result.Output, `#include "x.h"`))
}

func TestRun_MixedFormats(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
		"strings.yaml": `
theory:
  typechecker_header: strings.h
kinds:
  - type: operator
    name: STRING_CONCAT
    typerule: StringConcatTypeRule
`,
		"sets.hcl": `
theory {
  typechecker_header = "sets.h"
}
kinds {
  type      = "operator"
  name      = "SET_UNION"
  typerule  = "SetsBinaryOperatorTypeRule"
  construle = "SetsConstRule"
}
`,
	}

	result := testutil.Run(t, files, []string{"arith.toml", "strings.yaml", "sets.hcl"})

	require.NoError(t, result.Err)
	require.Contains(t, result.Output, "\n#include \"arith.h\"\n#include \"strings.h\"\n#include \"sets.h\"")
	require.Contains(t, result.Output, "return SetsConstRule::computeIsConst(nodeManager, n);")
}

func TestRun_MissingKindsFileLeavesOutputUntouched(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		testutil.OutputName:   "previous output",
		"arith.toml":          arithTOML,
	}

	result := testutil.Run(t, files, []string{"arith.toml", "nope.toml", "gone.toml"})

	var missingErr *config.MissingInputFileError
	require.True(t, errors.As(result.Err, &missingErr))
	require.Equal(t, []string{filepath.Join(result.Dir, "nope.toml"), filepath.Join(result.Dir, "gone.toml")}, missingErr.Paths)
	require.Equal(t, "previous output", result.Output)
	require.Equal(t, app.StateFailed, result.App.State())
}

func TestRun_SchemaErrorsAreFatal(t *testing.T) {
	testCases := []struct {
		name   string
		schema string
		file   string
		target func(error) bool
	}{
		{
			name:   "parse error",
			file:   "bad.toml",
			schema: "[theory\n",
			target: func(err error) bool { var e *config.SchemaParseError; return errors.As(err, &e) },
		},
		{
			name:   "validation error",
			file:   "bad.toml",
			schema: "[theory]\ntypechecker_header = \"a.h\"\n[[kinds]]\ntype = \"bogus\"\nname = \"X\"\n",
			target: func(err error) bool { var e *config.SchemaValidationError; return errors.As(err, &e) },
		},
		{
			name:   "nan in toml",
			file:   "nan.toml",
			schema: arithTOML + "\n[extra]\nweight = nan\n",
			target: func(err error) bool { var e *config.SchemaParseError; return errors.As(err, &e) },
		},
		{
			name:   "nan in yaml",
			file:   "nan.yaml",
			schema: "theory:\n  typechecker_header: x.h\nextra:\n  weight: .nan\n",
			target: func(err error) bool { var e *config.SchemaParseError; return errors.As(err, &e) },
		},
		{
			name:   "empty typerule",
			file:   "bad.toml",
			schema: "[theory]\ntypechecker_header = \"a.h\"\n[[kinds]]\ntype = \"operator\"\nname = \"X\"\ntyperule = \"\"\n",
			target: func(err error) bool { var e *config.SchemaValidationError; return errors.As(err, &e) },
		},
		{
			name:   "missing header",
			file:   "bad.toml",
			schema: "[theory]\nid = \"THEORY_X\"\n",
			target: func(err error) bool { var e *config.SchemaValidationError; return errors.As(err, &e) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			files := map[string]string{
				testutil.TemplateName: template,
				"arith.toml":          arithTOML,
				tc.file:               tc.schema,
			}
			result := testutil.Run(t, files, []string{"arith.toml", tc.file})

			require.True(t, tc.target(result.Err), "unexpected error: %v", result.Err)
			require.Empty(t, result.Output, "no output may be written on failure")
			require.Equal(t, app.StateFailed, result.App.State())
		})
	}
}

func TestRun_MissingHeaderWithoutValidation(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"bad.toml":            "[theory]\nid = \"THEORY_X\"\n",
	}

	result := testutil.RunConfig(t, files, app.Config{KindsPaths: []string{"bad.toml"}, NoValidate: true})

	var fieldErr *config.MissingRequiredFieldError
	require.True(t, errors.As(result.Err, &fieldErr))
	require.Equal(t, schema.FieldTypecheckerHeader, fieldErr.Field)
}

func TestRun_DuplicateKeyAcrossFiles(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"a.toml":              arithTOML,
		"b.toml":              arithTOML,
	}

	t.Run("default validator rejects", func(t *testing.T) {
		result := testutil.Run(t, files, []string{"a.toml", "b.toml"})
		var valErr *config.SchemaValidationError
		require.True(t, errors.As(result.Err, &valErr))
		require.Equal(t, filepath.Join(result.Dir, "b.toml"), valErr.Path)
	})

	t.Run("synthesis never deduplicates", func(t *testing.T) {
		result := testutil.Run(t, files, []string{"a.toml", "b.toml"}, app.WithValidator(schema.NopValidator{}))
		require.NoError(t, result.Err)
		require.Equal(t, 2, strings.Count(result.Output, "ArithTypeRule::computeType"))
	})
}

func TestRun_TwiceOnSameApp(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
		"bv.toml":             bvTOML,
	}
	result := testutil.Run(t, files, []string{"arith.toml", "bv.toml"})
	require.NoError(t, result.Err)

	require.NoError(t, result.App.Run(context.Background()))
	require.Equal(t, app.StateDone, result.App.State())

	second, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	require.Equal(t, result.Output, string(second))
}

func TestRun_StubValidatorSeesEveryFileInOrder(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
		"bv.toml":             bvTOML,
	}
	var seen []string
	stub := config.ValidatorFunc(func(_ context.Context, fileID string, _ *config.Document) error {
		seen = append(seen, filepath.Base(fileID))
		return nil
	})

	result := testutil.Run(t, files, []string{"bv.toml", "arith.toml"}, app.WithValidator(stub))

	require.NoError(t, result.Err)
	require.Equal(t, []string{"bv.toml", "arith.toml"}, seen)
}

func TestRun_DryRun(t *testing.T) {
	files := map[string]string{
		testutil.TemplateName: template,
		"arith.toml":          arithTOML,
	}

	result := testutil.RunConfig(t, files, app.Config{KindsPaths: []string{"arith.toml"}, DryRun: true})

	require.NoError(t, result.Err)
	require.Contains(t, result.Stdout, "case Kind::PLUS:")
	_, err := os.Stat(result.OutputPath)
	require.True(t, os.IsNotExist(err), "dry run must not create the output file")
}

func TestRun_MissingTemplate(t *testing.T) {
	result := testutil.Run(t, map[string]string{"arith.toml": arithTOML}, []string{"arith.toml"})
	require.Error(t, result.Err)
	require.Equal(t, app.StateFailed, result.App.State())
}

func TestNewConfig(t *testing.T) {
	_, err := app.NewConfig(app.Config{TemplatePath: "t", OutputPath: "o"})
	require.Error(t, err)

	_, err = app.NewConfig(app.Config{KindsPaths: []string{"a"}, OutputPath: "o"})
	require.Error(t, err)

	_, err = app.NewConfig(app.Config{KindsPaths: []string{"a"}, TemplatePath: "t"})
	require.Error(t, err)

	cfg, err := app.NewConfig(app.Config{KindsPaths: []string{"a"}, TemplatePath: "t", DryRun: true})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, cfg.KindsPaths)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "template_loaded", app.StateTemplateLoaded.String())
	require.Equal(t, "failed", app.StateFailed.String())
	require.Equal(t, "unknown", app.State(99).String())
}
