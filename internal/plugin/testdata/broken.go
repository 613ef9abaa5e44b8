package broken

func Tides( {
