package ports

type JSONRenderer interface {
	RenderJSON(raw []byte) (string, error)
}
