package control

// SnippetFlashes names the partial reload region holding flash messages.
const SnippetFlashes = "flashes"

// Flash kinds map onto Bootstrap alert modifiers.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot message rendered above the form.
type Flash struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// FlashMessage translates and queues a message, invalidating the flashes
// snippet. An empty kind means FlashInfo.
func (c *FormControl) FlashMessage(message, kind string) Flash {
	if kind == "" {
		kind = FlashInfo
	}
	flash := Flash{Message: sanitizeCaption(c.translate(message)), Kind: kind}
	c.flashes = append(c.flashes, flash)
	c.invalidate(SnippetFlashes)
	return flash
}

// Flashes returns the queued messages.
func (c *FormControl) Flashes() []Flash {
	return append([]Flash(nil), c.flashes...)
}
