package filter

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultNoiseNames are directory and file names assumed to carry no value
// for a token-constrained reader: VCS metadata, dependency caches, build
// output, bytecode caches, editor and OS litter. Overridable via config.
func DefaultNoiseNames() []string {
	return []string{
		"node_modules",
		".git",
		"target",
		"__pycache__",
		".next",
		"dist",
		"build",
		".cache",
		".turbo",
		".vercel",
		".pytest_cache",
		".mypy_cache",
		".tox",
		".venv",
		"venv",
		"env",
		".env",
		"coverage",
		".nyc_output",
		".DS_Store",
		"Thumbs.db",
		".idea",
		".vscode",
		".vs",
		"*.egg-info",
		".eggs",
	}
}

// matchesNoise reports whether the listing line's trailing name matches one
// of the noise names. Entries starting with "*" match by suffix, everything
// else requires the exact name at end of line.
func matchesNoise(line string, noise []string) bool {
	trimmed := strings.TrimSpace(line)
	for _, name := range noise {
		if rest, ok := strings.CutPrefix(name, "*"); ok {
			if strings.HasSuffix(trimmed, rest) {
				return true
			}
			continue
		}
		if trimmed == name || strings.HasSuffix(trimmed, " "+name) {
			return true
		}
	}
	return false
}

// classifyEntry parses one ls -l line into an Entry using the leading type
// indicator of the permissions field. Lines too short to carry a filename
// (ls -l prints 8 metadata fields before it) yield ok=false.
func classifyEntry(line string) (Entry, bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Entry{}, false
	}
	if strings.HasPrefix(parts[0], "d") {
		entry := Entry{IsDir: true}
		if len(parts) >= 9 {
			entry.Name = strings.Join(parts[8:], " ")
		}
		return entry, true
	}
	if !strings.HasPrefix(parts[0], "-") {
		// Symlinks, sockets, devices: neither counted nor summarized.
		return Entry{}, false
	}
	if len(parts) < 9 {
		return Entry{}, false
	}
	name := strings.Join(parts[8:], " ")
	ext := "no ext"
	if pos := strings.LastIndex(name, "."); pos >= 0 {
		ext = name[pos:]
	}
	return Entry{IsFile: true, Name: name, Ext: ext}, true
}

// listingSummary builds the "📊 N files, M dirs (...)" trailer from the
// surviving lines. Extensions are ranked by descending count; ties keep
// first-seen order.
func listingSummary(lines []string, limits Limits) string {
	type extCount struct {
		ext   string
		count int
	}
	var order []extCount
	index := make(map[string]int)
	files, dirs := 0, 0

	for _, line := range lines {
		entry, ok := classifyEntry(line)
		if !ok {
			continue
		}
		if entry.IsDir {
			dirs++
			continue
		}
		files++
		if i, ok := index[entry.Ext]; ok {
			order[i].count++
		} else {
			index[entry.Ext] = len(order)
			order = append(order, extCount{ext: entry.Ext, count: 1})
		}
	}

	if files == 0 && dirs == 0 {
		return ""
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].count > order[j].count })

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %d files", files)
	if dirs > 0 {
		fmt.Fprintf(&b, ", %d dirs", dirs)
	}
	if len(order) > 0 {
		b.WriteString(" (")
		shown := order
		if len(shown) > limits.MaxExtensions {
			shown = shown[:limits.MaxExtensions]
		}
		parts := make([]string, 0, len(shown))
		for _, ec := range shown {
			parts = append(parts, fmt.Sprintf("%d %s", ec.count, ec.ext))
		}
		b.WriteString(strings.Join(parts, ", "))
		if len(order) > limits.MaxExtensions {
			fmt.Fprintf(&b, ", +%d more", len(order)-limits.MaxExtensions)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// FilterListing filters raw ls output. The "total N" header always goes.
// With showAll set the user asked for everything, so nothing else is
// touched; otherwise noise entries are dropped and a type/extension summary
// is appended.
func FilterListing(raw string, showAll bool, noise []string, limits Limits) string {
	var kept []string
	for _, line := range strings.Split(strings.TrimSuffix(raw, "\n"), "\n") {
		if strings.HasPrefix(line, "total ") {
			continue
		}
		if !showAll && matchesNoise(line, noise) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 || (len(kept) == 1 && kept[0] == "") {
		return "\n"
	}

	out := strings.Join(kept, "\n")
	if summary := listingSummary(kept, limits); summary != "" {
		out += "\n\n" + summary
	}
	return out + "\n"
}
