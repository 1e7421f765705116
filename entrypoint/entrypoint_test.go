package entrypoint

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelops/contracts"
)

func TestFormatV1(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		eid, err := FormatV1("pkg.module.Class", "baseline", "sha256:abcdef1234567890fedcba0987654321")
		require.NoError(t, err)
		assert.Equal(t, "pkg.module.Class/baseline@abcdef123456", eid.String())

		eid2, err := FormatV1("my_app.models.EpiModel", "lockdown", "sha256:1234567890abcdef1234567890abcdef")
		require.NoError(t, err)
		assert.Equal(t, "my_app.models.EpiModel/lockdown@1234567890ab", eid2.String())
	})

	t.Run("complex scenarios", func(t *testing.T) {
		eid, err := FormatV1("pkg.Model", "high-growth.v2", "sha256:deadbeef12345678901234567890abcd")
		require.NoError(t, err)
		assert.Equal(t, "pkg.Model/high-growth.v2@deadbeef1234", eid.String())

		eid2, err := FormatV1("app.Sim", "test_scenario_1", "sha256:cafebabe12345678901234567890abcd")
		require.NoError(t, err)
		assert.Equal(t, "app.Sim/test_scenario_1@cafebabe1234", eid2.String())
	})

	t.Run("invalid import path", func(t *testing.T) {
		for _, path := range []string{"pkg", "123.module.Class", ""} {
			_, err := FormatV1(path, "baseline", "sha256:abcd1234567890")
			require.Error(t, err, "path %q", path)
			assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
		}
	})

	t.Run("invalid scenario", func(t *testing.T) {
		for _, scenario := range []string{"BASELINE", "-baseline", "baseline-", "base@line", strings.Repeat("a", 65)} {
			_, err := FormatV1("pkg.Model", scenario, "sha256:abcd1234567890")
			require.Error(t, err, "scenario %q", scenario)
			assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
		}
	})

	t.Run("invalid digest", func(t *testing.T) {
		tests := []struct{ name, digest string }{
			{"missing algo prefix", "abcd1234567890"},
			{"unsupported algorithm", "sha512:abcd1234567890"},
			{"too short", "sha256:abcd123"},
			{"non-hex prefix", "sha256:ZZZZ1234567890"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := FormatV1("pkg.Model", "baseline", tt.digest)
				require.Error(t, err)
				assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
			})
		}
	})
}

func TestParse_V1(t *testing.T) {
	p, err := Parse("pkg.module.Class/baseline@abcdef123456")
	require.NoError(t, err)
	assert.Equal(t, GrammarV1, p.Version)
	assert.Equal(t, FormScenario, p.Form)
	assert.Equal(t, "pkg.module.Class", p.ImportPath)
	assert.Equal(t, "baseline", p.Scenario)
	assert.Equal(t, "abcdef123456", p.Digest12)
	assert.Len(t, p.Digest12, DigestPrefixLen)
	assert.True(t, p.HasScenario())
}

func TestParse_V1Invalid(t *testing.T) {
	tests := []struct{ name, input string }{
		{"missing slash", "pkg.Model@abcdef123456"},
		{"multiple at signs", "pkg.Model/baseline@abc@def"},
		{"wrong digest length", "pkg.Model/baseline@abc"},
		{"uppercase digest", "pkg.Model/baseline@ABCDEF123456"},
		{"invalid import path", "pkg/baseline@abcdef123456"},
		{"invalid scenario", "pkg.Model/BASE-LINE@abcdef123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(EntryPointID(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
		})
	}
}

func TestParse_V2Scenario(t *testing.T) {
	p, err := Parse("pkg.module.Class/baseline")
	require.NoError(t, err)
	assert.Equal(t, GrammarV2, p.Version)
	assert.Equal(t, FormScenario, p.Form)
	assert.Equal(t, "pkg.module.Class", p.ImportPath)
	assert.Equal(t, "baseline", p.Scenario)
	assert.Empty(t, p.Digest12)
}

func TestParse_V2Module(t *testing.T) {
	p, err := Parse("models.sir:StochasticSIR")
	require.NoError(t, err)
	assert.Equal(t, GrammarV2, p.Version)
	assert.Equal(t, FormModule, p.Form)
	assert.Equal(t, "models.sir", p.ModulePath)
	assert.Equal(t, "StochasticSIR", p.ObjectName)
	assert.False(t, p.HasScenario())

	// Single-segment module path is legal in the module form.
	p2, err := Parse("models:Run")
	require.NoError(t, err)
	assert.Equal(t, "models", p2.ModulePath)
}

func TestParse_V2Invalid(t *testing.T) {
	tests := []struct{ name, input string }{
		{"both separators is ambiguous", "pkg.module/baseline:thing"},
		{"no separator", "pkgmodulebaseline"},
		{"empty", ""},
		{"bad scenario", "pkg.module.Class/BASELINE"},
		{"bad import path", "pkg/baseline"},
		{"bad object name", "models.sir:Stochastic-SIR"},
		{"empty object name", "models.sir:"},
		{"bad module path", "models..sir:Run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(EntryPointID(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
		})
	}
}

func TestRoundTrip_V1(t *testing.T) {
	tests := []struct {
		importPath, scenario, ociDigest string
	}{
		{"pkg.module.Class", "baseline", "sha256:abcdef1234567890fedcba0987654321"},
		{"my_app.models.Model", "test_1", "sha256:deadbeef12345678901234567890abcd"},
		{"a.b.C", "x", "sha256:1111111111112222222222223333333333"},
		{"very.nested.pkg.structure.ClassName", "complex-scenario.v2", "sha256:fedcba0987654321abcdef1234567890"},
	}

	for _, tt := range tests {
		eid, err := FormatV1(tt.importPath, tt.scenario, tt.ociDigest)
		require.NoError(t, err)

		p, err := Parse(eid)
		require.NoError(t, err)
		assert.Equal(t, tt.importPath, p.ImportPath)
		assert.Equal(t, tt.scenario, p.Scenario)
		assert.True(t, strings.HasPrefix(tt.ociDigest, "sha256:"+p.Digest12))
	}
}

func TestRoundTrip_V2(t *testing.T) {
	tests := []struct {
		importPath, scenario string
	}{
		{"pkg.module.Class", "baseline"},
		{"a.b.C", "x"},
		{"very.nested.pkg.Class", "complex-scenario.v2"},
	}

	for _, tt := range tests {
		eid, err := Format(tt.importPath, tt.scenario)
		require.NoError(t, err)

		p, err := Parse(eid)
		require.NoError(t, err)
		assert.Equal(t, tt.importPath, p.ImportPath)
		assert.Equal(t, tt.scenario, p.Scenario)
	}
}

func TestFormatModule(t *testing.T) {
	eid, err := FormatModule("models.sir", "StochasticSIR")
	require.NoError(t, err)
	assert.Equal(t, "models.sir:StochasticSIR", eid.String())

	_, err = FormatModule("models.sir", "bad-name")
	require.Error(t, err)

	_, err = FormatModule("1models", "Run")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	eid, err := New("pkg.Model/baseline@abcdef123456")
	require.NoError(t, err)
	assert.Equal(t, "pkg.Model/baseline@abcdef123456", eid.String())

	_, err = New("not an entrypoint")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
}

func TestValidateMatchesBundle(t *testing.T) {
	eid := EntryPointID("pkg.Model/baseline@abcdef123456")

	t.Run("matching sha256 ref", func(t *testing.T) {
		require.NoError(t, ValidateMatchesBundle(eid, "sha256:abcdef1234567890fedcba0987654321"))
	})

	t.Run("repository-prefixed ref", func(t *testing.T) {
		require.NoError(t, ValidateMatchesBundle(eid, "registry.example.com/epi-sir@sha256:abcdef1234567890fedcba0987654321"))
	})

	t.Run("mismatched digest", func(t *testing.T) {
		err := ValidateMatchesBundle(eid, "sha256:fedcba0987654321abcdef1234567890")
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrBundleMismatch))
	})

	t.Run("local placeholder accepts well-formed digest", func(t *testing.T) {
		require.NoError(t, ValidateMatchesBundle(eid, "local://dev"))
	})

	t.Run("unknown scheme", func(t *testing.T) {
		err := ValidateMatchesBundle(eid, "not-a-valid-ref")
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
	})

	t.Run("truncated sha256 ref", func(t *testing.T) {
		err := ValidateMatchesBundle(eid, "sha256:abc")
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
	})

	t.Run("v2 entrypoint has no digest to match", func(t *testing.T) {
		err := ValidateMatchesBundle("pkg.Model/baseline", "sha256:abcdef1234567890fedcba0987654321")
		require.Error(t, err)
		assert.True(t, errors.Is(err, contracts.ErrMalformedGrammar))
	})
}

func TestMatchesBundle(t *testing.T) {
	eid := EntryPointID("pkg.Model/baseline@abcdef123456")

	assert.True(t, MatchesBundle(eid, "sha256:abcdef1234567890fedcba"))
	assert.False(t, MatchesBundle(eid, "sha256:fedcba0987654321abcdef"))

	// Every throwing failure mode maps to false, never a panic.
	assert.False(t, MatchesBundle(eid, "invalid"))
	assert.False(t, MatchesBundle("invalid", "sha256:abcdef1234567890fedcba"))
	assert.False(t, MatchesBundle("pkg.Model/baseline", "sha256:abcdef1234567890fedcba"))
	assert.False(t, MatchesBundle(eid, "sha256:"))
}
