package www

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"mescore/store"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"timeAgo": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			d := time.Since(t)
			switch {
			case d < time.Minute:
				return "just now"
			case d < time.Hour:
				m := int(d.Minutes())
				if m == 1 {
					return "1 minute ago"
				}
				return fmt.Sprintf("%d minutes ago", m)
			case d < 24*time.Hour:
				h := int(d.Hours())
				if h == 1 {
					return "1 hour ago"
				}
				return fmt.Sprintf("%d hours ago", h)
			default:
				days := int(d.Hours() / 24)
				if days == 1 {
					return "1 day ago"
				}
				return fmt.Sprintf("%d days ago", days)
			}
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"formatTimePtr": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02")
		},
		"statusLabel": func(status string) string {
			if label, ok := store.StatusLabels[status]; ok {
				return label
			}
			return status
		},
		"statusColor": func(status string) string {
			switch status {
			case store.StatusPlanned:
				return "badge-planned"
			case store.StatusReady:
				return "badge-ready"
			case store.StatusAssembly:
				return "badge-assembly"
			case store.StatusInspection:
				return "badge-inspection"
			case store.StatusPack:
				return "badge-pack"
			case store.StatusDone:
				return "badge-done"
			default:
				return ""
			}
		},
		"inspStatusColor": func(status string) string {
			if status == store.InspectionCompleted {
				return "badge-done"
			}
			return "badge-planned"
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"add": func(a, b int) int {
			return a + b
		},
		"f1": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
		"f2": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
		"derefStr": func(p *string) string {
			if p == nil {
				return "-"
			}
			return *p
		},
		"derefF": func(p *float64) string {
			if p == nil {
				return "-"
			}
			return fmt.Sprintf("%g", *p)
		},
		"minutes": func(sec int) string {
			return fmt.Sprintf("%.1f", float64(sec)/60)
		},
	}
}
