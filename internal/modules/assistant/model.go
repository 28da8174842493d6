package assistant

import "errors"

var (
	ErrInvalidTranscript = errors.New("invalid messages")
	ErrNoCompletion      = errors.New("no completion returned")
)

// Generation settings are fixed; they are not negotiated per request.
const (
	MaxTokens   = 1024
	Temperature = 0.7
)

// Message is one caller-supplied transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const systemPrompt = `You are a travel assistant that provides real-time travel package information. When users ask about travel options, use the following format to present available packages:

[Package Type] - [Provider]
Price: $[amount]
Details: [brief description]
Book Now: [booking link]

For example:
Flight Package - Expedia
Price: $899
Details: Round-trip from New York to Paris, including 7-night hotel stay
Book Now: https://expedia.com/package123

Hotel Package - Booking.com
Price: $1299
Details: 5-star resort in Bali with breakfast included
Book Now: https://booking.com/hotel123

Please provide specific, current pricing and availability information.`
