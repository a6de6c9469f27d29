package rotor

type wiring struct {
	mapping   string
	notch     byte
	reflector bool
}

// historical holds the wirings of the rotors and reflectors of the Enigma I
// and M4 machines.  They are only defined over the classic alphabet.
var historical = map[string]wiring{
	"I":     {mapping: "EKMFLGDQVZNTOWYHXUSPAIBRCJ", notch: 'Q'},
	"II":    {mapping: "AJDKSIRUXBLHWTMCQGZNPYFVOE", notch: 'E'},
	"III":   {mapping: "BDFHJLCPRTXVZNYEIWGAKMUSQO", notch: 'V'},
	"IV":    {mapping: "ESOVPZJAYQUIRHXLNFTGKDCMWB", notch: 'J'},
	"V":     {mapping: "VZBRGITYUPSDNHLXAWMJQOFECK", notch: 'Z'},
	"Beta":  {mapping: "LEYJVCNIXWPBQMDRTAKZGFUHOS"},
	"Gamma": {mapping: "FSOKANUERHMBTIYCWLQPZXVGJD"},
	"A":     {mapping: "EJMZALYXVBWFCRQUONTSPIKHGD", reflector: true},
	"B":     {mapping: "YRUHQSLDPXNGOKMIEBFZCWVJAT", reflector: true},
	"C":     {mapping: "FVPJIAOYEDRZXWGCTKUQSBNMHL", reflector: true},
}

// Names lists the historical rotor and reflector tags.
func Names() []string {
	return []string{"I", "II", "III", "IV", "V", "Beta", "Gamma", "A", "B", "C"}
}
