package helpers

func PortName(id string) string {
	return "Port " + id
}
