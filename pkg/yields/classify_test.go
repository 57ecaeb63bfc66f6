package yields

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("severity tag is authoritative", func(t *testing.T) {
		errs := []FetchError{
			NewFetchError("Suilend", "native", "estimate in use", SeverityCritical),
			NewFetchError("Haedal", "native", "Failed to fetch", SeverityWarning),
		}
		c := Classify(errs)
		// The messages would classify the opposite way; the tags win.
		require.Len(t, c.Critical, 1)
		require.Equal(t, "Suilend", c.Critical[0].ProviderLabel)
		require.Len(t, c.Warnings, 1)
		require.Equal(t, "Haedal", c.Warnings[0].ProviderLabel)
	})

	t.Run("untagged errors fall back to message text", func(t *testing.T) {
		errs := []FetchError{
			{ProviderLabel: "NAVI", Message: "Failed to fetch reserves"},
			{ProviderLabel: "Volo", Message: "Using estimate, live rate unavailable"},
		}
		c := Classify(errs)
		require.Len(t, c.Critical, 1)
		require.Equal(t, "NAVI", c.Critical[0].ProviderLabel)
		require.Len(t, c.Warnings, 1)
		require.Equal(t, "Volo", c.Warnings[0].ProviderLabel)
	})

	t.Run("untagged error can land in both buckets", func(t *testing.T) {
		errs := []FetchError{
			{ProviderLabel: "Cetus", Message: "critical: service unavailable"},
		}
		c := Classify(errs)
		require.Len(t, c.Critical, 1)
		require.Len(t, c.Warnings, 1)
	})

	t.Run("untagged error can land in neither bucket", func(t *testing.T) {
		errs := []FetchError{
			{ProviderLabel: "Scallop", Message: "odd response shape"},
		}
		c := Classify(errs)
		require.Empty(t, c.Critical)
		require.Empty(t, c.Warnings)
	})

	t.Run("info severity is dropped", func(t *testing.T) {
		errs := []FetchError{
			NewFetchError("DefiLlama", "fallback", "Failed to fetch", SeverityInfo),
		}
		c := Classify(errs)
		require.Empty(t, c.Critical)
		require.Empty(t, c.Warnings)
		require.False(t, c.HasCritical())
	})

	t.Run("empty input", func(t *testing.T) {
		c := Classify(nil)
		require.Empty(t, c.Critical)
		require.Empty(t, c.Warnings)
	})
}
