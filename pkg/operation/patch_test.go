package operation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
)

const botSource = `const priceCache = new Map();
const PRICE_CACHE_TTL = 30000;

async function getRealMarketPrice(marketId) {
    return 0; // SENTINEL_PLACEHOLDER
}

async function main() {
    console.log('🚀 bot started');
}
`

const fixedPriceFunction = `async function getRealMarketPrice(marketId) {
    const cached = priceCache.get(marketId);
    if (cached && Date.now() - cached.timestamp < PRICE_CACHE_TTL) {
        return cached.price;
    }
    return null;
}`

func newTestOptions(t *testing.T, cfg *config.Config) Options {
	t.Helper()
	logger := zerolog.Nop()
	return Options{
		Config:    cfg,
		Patcher:   text.NewSourcePatcher(),
		StatusMgr: status.New(&logger),
		Logger:    &logger,
	}
}

func writeTarget(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPatchOperation_ReplacesFunction(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "unified_bot.js", botSource)

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			File:        "unified_bot.js",
			Function:    "getRealMarketPrice",
			Replacement: fixedPriceFunction,
		}},
	}
	require.NoError(t, cfg.Validate())

	opts := newTestOptions(t, cfg)
	op, err := NewPatchOperation(opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(context.Background()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(got), fixedPriceFunction)
	assert.NotContains(t, string(got), "SENTINEL_PLACEHOLDER")
	// Everything outside the replaced region is untouched, including
	// non-ASCII bytes.
	assert.Contains(t, string(got), "const priceCache = new Map();")
	assert.Contains(t, string(got), "console.log('🚀 bot started');")

	info, err := opts.StatusMgr.GetFileInfo(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, status.StatusPatched, info.Status)
	assert.Equal(t, 1, info.Matches)
}

func TestPatchOperation_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "unified_bot.js", botSource)

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			File:        "unified_bot.js",
			Function:    "getRealMarketPrice",
			Replacement: fixedPriceFunction,
		}},
	}
	require.NoError(t, cfg.Validate())

	runOnce := func() string {
		opts := newTestOptions(t, cfg)
		op, err := NewPatchOperation(opts)
		require.NoError(t, err)
		require.NoError(t, op.Execute(context.Background()))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		return string(got)
	}

	first := runOnce()
	second := runOnce()
	assert.Equal(t, first, second)
}

func TestPatchOperation_NoMatch(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "unified_bot.js", botSource)

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			File:        "unified_bot.js",
			Function:    "doesNotExist",
			Replacement: "function doesNotExist() {}",
		}},
	}
	require.NoError(t, cfg.Validate())

	opts := newTestOptions(t, cfg)
	op, err := NewPatchOperation(opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(context.Background()))

	// Contents must be exactly what they were
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, botSource, string(got))

	info, err := opts.StatusMgr.GetFileInfo(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, status.StatusUnchanged, info.Status)
	assert.Equal(t, 0, info.Matches)
}

func TestPatchOperation_MultipleRulesSameFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "unified_bot.js", botSource)

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{
			{
				Name:        "fix-price",
				File:        "unified_bot.js",
				Function:    "getRealMarketPrice",
				Replacement: fixedPriceFunction,
			},
			{
				Name:        "optional",
				File:        "unified_bot.js",
				Function:    "doesNotExist",
				Replacement: "function doesNotExist() {}",
			},
		},
	}
	require.NoError(t, cfg.Validate())

	opts := newTestOptions(t, cfg)
	op, err := NewPatchOperation(opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(context.Background()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), fixedPriceFunction)

	// The second rule matched nothing; it must not mask the first
	// rule's patch in the report.
	info, err := opts.StatusMgr.GetFileInfo(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, status.StatusPatched, info.Status)
	assert.Equal(t, 1, info.Matches)
	assert.Equal(t, 1, opts.StatusMgr.TotalMatches(context.Background()))
}

func TestPatchOperation_MustMatch(t *testing.T) {
	dir := t.TempDir()
	writeTarget(t, dir, "unified_bot.js", botSource)

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			Name:        "strict",
			File:        "unified_bot.js",
			Function:    "doesNotExist",
			Replacement: "function doesNotExist() {}",
			MustMatch:   true,
		}},
	}
	require.NoError(t, cfg.Validate())

	op, err := NewPatchOperation(newTestOptions(t, cfg))
	require.NoError(t, err)

	err = op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule strict: no match found")
}

func TestPatchOperation_MissingTarget(t *testing.T) {
	cfg := &config.Config{
		Root: t.TempDir(),
		Rules: []config.Rule{{
			File:        "nope.js",
			Function:    "f",
			Replacement: "function f() {}",
		}},
	}
	require.NoError(t, cfg.Validate())

	op, err := NewPatchOperation(newTestOptions(t, cfg))
	require.NoError(t, err)

	err = op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading target")
}

func TestPatchOperation_Glob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	a := writeTarget(t, dir, "a.js", "const TTL = 30;\n")
	b := writeTarget(t, filepath.Join(dir, "sub"), "b.js", "const TTL = 45;\n")
	other := writeTarget(t, dir, "notes.txt", "const TTL = 30;\n")

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			File:        "**/*.js",
			Pattern:     `const TTL = \d+;`,
			Replacement: "const TTL = 60;",
		}},
	}
	require.NoError(t, cfg.Validate())

	op, err := NewPatchOperation(newTestOptions(t, cfg))
	require.NoError(t, err)
	require.NoError(t, op.Execute(context.Background()))

	for _, path := range []string{a, b} {
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "const TTL = 60;\n", string(got))
	}

	// Files outside the glob stay untouched
	got, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, "const TTL = 30;\n", string(got))
}

func TestPatchOperation_ReplacementFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "unified_bot.js", botSource)
	writeTarget(t, dir, "fixed.js", fixedPriceFunction)

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			File:            "unified_bot.js",
			Function:        "getRealMarketPrice",
			ReplacementFile: "fixed.js",
		}},
	}
	require.NoError(t, cfg.Validate())

	op, err := NewPatchOperation(newTestOptions(t, cfg))
	require.NoError(t, err)
	require.NoError(t, op.Execute(context.Background()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), fixedPriceFunction)
}

func TestStatusOperation_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "unified_bot.js", botSource)

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			File:        "unified_bot.js",
			Function:    "getRealMarketPrice",
			Replacement: fixedPriceFunction,
		}},
	}
	require.NoError(t, cfg.Validate())

	opts := newTestOptions(t, cfg)
	op, err := NewStatusOperation(opts)
	require.NoError(t, err)
	assert.Equal(t, "status", op.Name())
	require.NoError(t, op.Execute(context.Background()))

	// Nothing written
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, botSource, string(got))

	info, err := opts.StatusMgr.GetFileInfo(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, status.StatusPending, info.Status)
	assert.Equal(t, 1, info.Matches)
}

func TestPatchOperation_PreservesFileMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.js")
	require.NoError(t, os.WriteFile(path, []byte(botSource), 0755))

	cfg := &config.Config{
		Root: dir,
		Rules: []config.Rule{{
			File:        "run.js",
			Function:    "getRealMarketPrice",
			Replacement: fixedPriceFunction,
		}},
	}
	require.NoError(t, cfg.Validate())

	op, err := NewPatchOperation(newTestOptions(t, cfg))
	require.NoError(t, err)
	require.NoError(t, op.Execute(context.Background()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestNewBaseOperation_Validation(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &config.Config{Rules: []config.Rule{{File: "a", Function: "f", Replacement: "x"}}}

	tests := []struct {
		name      string
		opts      Options
		wantError string
	}{
		{
			name:      "missing_config",
			opts:      Options{Patcher: text.NewSourcePatcher(), StatusMgr: status.New(&logger), Logger: &logger},
			wantError: "config is required",
		},
		{
			name:      "missing_patcher",
			opts:      Options{Config: cfg, StatusMgr: status.New(&logger), Logger: &logger},
			wantError: "patcher is required",
		},
		{
			name:      "missing_status_manager",
			opts:      Options{Config: cfg, Patcher: text.NewSourcePatcher(), Logger: &logger},
			wantError: "status manager is required",
		},
		{
			name:      "missing_logger",
			opts:      Options{Config: cfg, Patcher: text.NewSourcePatcher(), StatusMgr: status.New(&logger)},
			wantError: "logger is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPatchOperation(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}
