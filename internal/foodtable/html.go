package foodtable

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// DefaultTimeout bounds a Fetch request.
const DefaultTimeout = 30 * time.Second

const userAgent = "Mozilla/5.0 (compatible; HealthTracker/1.0)"

// FetchError reports a failed download.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Fetch downloads an HTML page and parses its nutrition table.
func Fetch(ctx context.Context, rawURL string, client *http.Client) ([]nutrition.FoodEntry, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &FetchError{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return ParseHTML(resp.Body)
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseHTML reads every <table> row whose cells are
// name, kcal, protein, carbs, fat. Header rows and rows whose numeric cells
// do not parse are skipped. Later duplicates of a keyword are dropped.
func ParseHTML(r io.Reader) ([]nutrition.FoodEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var entries []nutrition.FoodEntry
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}

		keyword := strings.ToLower(strings.Join(strings.Fields(cells.Eq(0).Text()), " "))
		if keyword == "" || seen[keyword] {
			return
		}

		values := make([]float64, 4)
		for i := range values {
			v, ok := parseNumber(cells.Eq(i + 1).Text())
			if !ok {
				return
			}
			values[i] = v
		}

		seen[keyword] = true
		entries = append(entries, nutrition.FoodEntry{
			Keyword:         keyword,
			CaloriesPerUnit: values[0],
			ProteinPerUnit:  values[1],
			CarbsPerUnit:    values[2],
			FatPerUnit:      values[3],
		})
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("no nutrition rows found")
	}
	return entries, nil
}

// parseNumber takes the first number in a cell such as "12.5 g" or "95 kcal".
func parseNumber(cell string) (float64, bool) {
	m := numberPattern.FindString(strings.ReplaceAll(cell, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
