package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Platform
	}{
		{"Greenhouse board", "https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"Lever posting", "https://jobs.lever.co/acme/abc-def", PlatformLever},
		{"Workday", "https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"Workday corporate", "https://acme.workday.com/job/123", PlatformWorkday},
		{"Unknown board", "https://careers.example.com/job/123", PlatformUnknown},
		{"Invalid URL", "://not-a-url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformSelectors(t *testing.T) {
	t.Run("Known platforms have specific content selectors", func(t *testing.T) {
		assert.Contains(t, PlatformContentSelectors(PlatformGreenhouse), ".job__description")
		assert.Contains(t, PlatformContentSelectors(PlatformLever), ".posting-description")
		assert.Contains(t, PlatformContentSelectors(PlatformWorkday), "[data-automation-id='jobDescription']")
	})

	t.Run("Unknown platform falls back to generic selectors", func(t *testing.T) {
		assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
	})

	t.Run("Platform noise extends common noise", func(t *testing.T) {
		common := PlatformNoiseSelectors(PlatformUnknown)
		greenhouse := PlatformNoiseSelectors(PlatformGreenhouse)
		assert.Greater(t, len(greenhouse), len(common))
		for _, sel := range common {
			assert.Contains(t, greenhouse, sel)
		}
	})
}

func TestExtractMainText(t *testing.T) {
	t.Run("Uses first matching content selector", func(t *testing.T) {
		html := `<html><body>
			<nav>Site navigation</nav>
			<div class="job-description">We are hiring a Go engineer.</div>
			<footer>Copyright</footer>
		</body></html>`

		text, err := ExtractMainText(html, JobPostingSelectors())
		require.NoError(t, err)
		assert.Contains(t, text, "We are hiring a Go engineer.")
		assert.NotContains(t, text, "Site navigation")
		assert.NotContains(t, text, "Copyright")
	})

	t.Run("Removes noise selectors before extraction", func(t *testing.T) {
		html := `<html><body><div class="job-description">
			<p>Build distributed systems.</p>
			<form>First name: <input/></form>
			<div class="eeo-statement">Equal opportunity text.</div>
		</div></body></html>`

		text, err := ExtractMainText(html, JobPostingSelectors(), PlatformNoiseSelectors(PlatformUnknown)...)
		require.NoError(t, err)
		assert.Contains(t, text, "Build distributed systems.")
		assert.NotContains(t, text, "First name")
		assert.NotContains(t, text, "Equal opportunity")
	})

	t.Run("Falls back to body when no selector matches", func(t *testing.T) {
		html := `<html><body><div class="unrelated">Plain page text.</div></body></html>`

		text, err := ExtractMainText(html, []string{".job-description"})
		require.NoError(t, err)
		assert.Contains(t, text, "Plain page text.")
	})

	t.Run("Strips scripts and styles", func(t *testing.T) {
		html := `<html><body>
			<script>var tracking = true;</script>
			<style>.x{color:red}</style>
			<main>Actual posting content.</main>
		</body></html>`

		text, err := ExtractMainText(html, JobPostingSelectors())
		require.NoError(t, err)
		assert.Contains(t, text, "Actual posting content.")
		assert.NotContains(t, text, "tracking")
		assert.NotContains(t, text, "color:red")
	})
}

func TestURL(t *testing.T) {
	t.Run("Fetches HTML from server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer srv.Close()

		result, err := URL(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Contains(t, result.HTML, "hello")
		assert.Contains(t, result.ContentType, "text/html")
	})

	t.Run("Non-200 status returns error with result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		result, err := URL(context.Background(), srv.URL, nil)
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, http.StatusNotFound, result.StatusCode)

		var fetchErr *Error
		assert.True(t, errors.As(err, &fetchErr))
	})

	t.Run("Invalid URL", func(t *testing.T) {
		_, err := URL(context.Background(), "not-a-url", nil)
		require.Error(t, err)

		var fetchErr *Error
		require.True(t, errors.As(err, &fetchErr))
		assert.Contains(t, fetchErr.Message, "invalid URL")
	})

	t.Run("Custom headers are sent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "token", r.Header.Get("X-Test"))
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		opts := DefaultOptions()
		opts.Headers = map[string]string{"X-Test": "token"}
		_, err := URL(context.Background(), srv.URL, opts)
		require.NoError(t, err)
	})
}

func TestJobPosting(t *testing.T) {
	t.Run("Extracts job text end to end", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body>
				<nav>menu</nav>
				<div class="job-description">Senior Go Engineer. ` + strings.Repeat("Build services. ", 40) + `</div>
			</body></html>`))
		}))
		defer srv.Close()

		text, err := JobPosting(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Contains(t, text, "Senior Go Engineer.")
		assert.NotContains(t, text, "menu")
	})

	t.Run("Empty page returns error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body></body></html>`))
		}))
		defer srv.Close()

		_, err := JobPosting(context.Background(), srv.URL, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no job description text found")
	})
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short snippet"))
	assert.True(t, ShouldUseBrowser("   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("long enough content ", 30)))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{URL: "https://example.com", Message: "HTTP request failed", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "https://example.com")
	assert.Contains(t, err.Error(), "connection refused")
}
