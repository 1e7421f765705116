package environment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelops/contracts/digest"
)

func testEnv() RuntimeEnvironment {
	return RuntimeEnvironment{
		RuntimeVersion: "3.11.5",
		Platform:       "linux-amd64",
		Dependencies:   map[string]string{"numpy": "1.26.4", "pandas": "2.2.2"},
		RNGAlgorithm:   "PCG64",
		ThreadCount:    1,
	}
}

func TestRuntimeEnvironmentDigest(t *testing.T) {
	t.Run("golden vectors", func(t *testing.T) {
		// Pinned against the producer implementation.
		d, err := testEnv().Digest()
		require.NoError(t, err)
		assert.Equal(t, digest.Digest("d0ddfe5ab637fd7d7e08dcd1382e69209d004f9184190ca0411fe0850df31a6a"), d)

		noDeps := testEnv()
		noDeps.Dependencies = nil
		d, err = noDeps.Digest()
		require.NoError(t, err)
		assert.Equal(t, digest.Digest("f39f21e146e682ec3f0a83dfef1eec62ee9f6fdcb79f58ae915b6de77816c420"), d)

		withContainer := testEnv()
		withContainer.ContainerImage = "sha256:" + strings.Repeat("ef", 32)
		d, err = withContainer.Digest()
		require.NoError(t, err)
		assert.Equal(t, digest.Digest("9892a755e229f158e4e0f33978cd1405510b1235d436fa6a33ec1ff6be7a58ff"), d)
	})

	t.Run("dependency map order never matters", func(t *testing.T) {
		a := testEnv()
		b := testEnv()
		b.Dependencies = map[string]string{"pandas": "2.2.2", "numpy": "1.26.4"}

		da, err := a.Digest()
		require.NoError(t, err)
		db, err := b.Digest()
		require.NoError(t, err)
		assert.Equal(t, da, db)
	})

	t.Run("every factor contributes", func(t *testing.T) {
		base, err := testEnv().Digest()
		require.NoError(t, err)

		mutations := map[string]func(*RuntimeEnvironment){
			"runtime":   func(e *RuntimeEnvironment) { e.RuntimeVersion = "3.12.0" },
			"platform":  func(e *RuntimeEnvironment) { e.Platform = "darwin-arm64" },
			"deps":      func(e *RuntimeEnvironment) { e.Dependencies["numpy"] = "2.0.0" },
			"container": func(e *RuntimeEnvironment) { e.ContainerImage = "sha256:abc" },
			"cuda":      func(e *RuntimeEnvironment) { e.CUDAVersion = "12.4" },
			"rng":       func(e *RuntimeEnvironment) { e.RNGAlgorithm = "MT19937" },
			"threads":   func(e *RuntimeEnvironment) { e.ThreadCount = 8 },
		}
		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				env := testEnv()
				mutate(&env)
				d, err := env.Digest()
				require.NoError(t, err)
				assert.NotEqual(t, base, d)
			})
		}
	})
}

func TestCapture(t *testing.T) {
	env := Capture()
	assert.NotEmpty(t, env.RuntimeVersion)
	assert.Contains(t, env.Platform, "-")
	assert.Equal(t, "PCG64", env.RNGAlgorithm)
	assert.Equal(t, 1, env.ThreadCount)

	d, err := env.Digest()
	require.NoError(t, err)
	assert.True(t, d.Valid())
}

func TestWithDependencies(t *testing.T) {
	base := Capture()
	updated := base.WithDependencies(map[string]string{"numpy": "1.26.4"})

	// The original is untouched.
	assert.Empty(t, base.Dependencies)
	assert.Equal(t, "1.26.4", updated.Dependencies["numpy"])

	db, err := base.Digest()
	require.NoError(t, err)
	du, err := updated.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, db, du)
}
