package chat

// EnvelopeDelimiter separates the human-readable reply from the trailing
// local vector data segment in raw chat backend replies.
const EnvelopeDelimiter = "=== found local vectdata ==="

// Envelope is the transient result of splitting a raw backend reply.
// Diagnostic is empty when the raw reply carried no delimiter.
type Envelope struct {
	Primary    string
	Diagnostic string
	HasDiag    bool
}

// Display composes the text shown (and stored) for the bot message.
func (e Envelope) Display() string {
	if !e.HasDiag {
		return e.Primary
	}
	return e.Primary + "\n\n" + EnvelopeDelimiter + "\n\n" + e.Diagnostic
}
