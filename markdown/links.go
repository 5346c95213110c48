package markdown

import (
	"path"
	"strings"
)

// RelativeLink returns the shortest relative path from the document at from
// to the document at to. Both are slash-separated paths under the same root;
// the result depends only on their structure.
//
//	RelativeLink("Device/Motor/Motor.md", "Device/Device.md") // ../Device.md
//	RelativeLink("Device/Sensor.md", "Device/Motor/Motor.md") // Motor/Motor.md
func RelativeLink(from, to string) string {
	fromDir := splitPath(path.Dir(path.Clean(from)))
	target := splitPath(path.Clean(to))

	common := 0
	for common < len(fromDir) && common < len(target)-1 && fromDir[common] == target[common] {
		common++
	}

	parts := make([]string, 0, len(fromDir)-common+len(target)-common)
	for i := common; i < len(fromDir); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, target[common:]...)
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	if p == "." || p == "" || p == "/" {
		return nil
	}
	return strings.Split(strings.Trim(p, "/"), "/")
}

// link renders a markdown link from the document at from.
func link(text, from, to string) string {
	return "[" + text + "](" + RelativeLink(from, to) + ")"
}
