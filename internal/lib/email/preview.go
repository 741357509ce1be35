package email

// PreviewData is sample template data for the email-preview command,
// keyed by template name and then template variable.
var PreviewData = map[Template]map[string]string{
	TemplateEventCancelled: {
		"HolderName": "Ada",
		"EventID":    "preview-event",
		"EventName":  "Jazz in the Park",
		"StartsAt":   "Saturday, November 7, 2026 at 19:30 UTC",
	},
}

// Preview renders a template with its PreviewData.
func Preview(name Template) (string, error) {
	return Render(name, PreviewData[name])
}
