// seed_boards.go parses a markdown list of ideas and creates them as seeds on a board via the Seeds API.
//
// Usage:
//
//	go run scripts/seed_boards.go -ideas IDEAS.md -board <board-id> -api http://localhost:8700 -user system
//
// Each "- " or "- [ ] " line becomes a seed. A trailing {roi=high, compliance=low}
// block sets ratings, and a priority emoji sets the seed priority.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
)

type seedItem struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Priority    string            `json:"priority,omitempty"`
	Ratings     map[string]string `json:"ratings,omitempty"`
}

// Priority emoji to seed priority mapping
var priorityMap = map[string]string{
	"🔴": "high",
	"🟠": "high",
	"🟡": "medium",
	"🟢": "low",
}

func main() {
	ideasPath := flag.String("ideas", "IDEAS.md", "path to markdown ideas file")
	apiURL := flag.String("api", "http://localhost:8700", "Seeds API base URL")
	boardID := flag.String("board", "", "board id to create seeds on")
	userID := flag.String("user", "system", "X-User-ID header value")
	dryRun := flag.Bool("dry-run", false, "print items without posting")
	flag.Parse()

	if *boardID == "" && !*dryRun {
		log.Fatal("-board is required unless -dry-run is set")
	}

	f, err := os.Open(*ideasPath)
	if err != nil {
		log.Fatalf("open %s: %v", *ideasPath, err)
	}
	defer f.Close()

	var items []seedItem
	var section string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#") {
			section = strings.TrimSpace(strings.TrimLeft(line, "# "))
			continue
		}
		if !strings.HasPrefix(line, "- ") {
			continue
		}

		text := strings.TrimPrefix(line, "- ")
		text = strings.TrimPrefix(text, "[ ] ")
		if strings.HasPrefix(text, "[x] ") || strings.HasPrefix(text, "[X] ") {
			// Finished items are not ideas any more.
			continue
		}

		item := seedItem{}
		for emoji, p := range priorityMap {
			if strings.Contains(text, emoji) {
				item.Priority = p
				text = strings.TrimSpace(strings.ReplaceAll(text, emoji, ""))
				break
			}
		}

		text, item.Ratings = parseRatings(text)
		item.Title = strings.TrimSpace(text)
		if section != "" {
			item.Description = "From section: " + section
		}
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("scan %s: %v", *ideasPath, err)
	}

	log.Printf("parsed %d ideas from %s", len(items), *ideasPath)

	if *dryRun {
		for i, item := range items {
			priority := item.Priority
			if priority == "" {
				priority = "low"
			}
			fmt.Printf("[%d] %s (priority=%s, ratings=%s)\n", i+1, item.Title, priority, formatRatings(item.Ratings))
		}
		return
	}

	client := &http.Client{}
	url := strings.TrimRight(*apiURL, "/") + "/api/v1/boards/" + *boardID + "/seeds"
	created, skipped := 0, 0
	for _, item := range items {
		body, _ := json.Marshal(item)
		req, err := http.NewRequest("POST", url, bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", item.Title, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", *userID)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", item.Title, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d", item.Title, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

// parseRatings strips a trailing {dim=rating, ...} block from text.
func parseRatings(text string) (string, map[string]string) {
	open := strings.LastIndex(text, "{")
	if open < 0 || !strings.HasSuffix(text, "}") {
		return text, nil
	}
	ratings := make(map[string]string)
	for _, pair := range strings.Split(text[open+1:len(text)-1], ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		ratings[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return text[:open], ratings
}

func formatRatings(r map[string]string) string {
	if len(r) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + r[k]
	}
	return strings.Join(parts, ",")
}
