package domain

type ReplyKind string

const (
	ReplyPlain ReplyKind = "plain"
	ReplyJSON  ReplyKind = "json"
)

type Reply struct {
	Kind ReplyKind
	Text string
}

func PlainReply(text string) Reply {
	return Reply{Kind: ReplyPlain, Text: text}
}

func JSONReply(text string) Reply {
	return Reply{Kind: ReplyJSON, Text: text}
}
