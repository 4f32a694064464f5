package domainenc

import "fmt"

// Describe renders the set in the verbose form the probe's -v flag prints:
// one numbered line per name, each label shown as its raw length (in
// octal, matching the original tool's "\0NNN" notation) followed by its
// quoted text.
func Describe(s Set) string {
	out := fmt.Sprintf("Domains (%d):", s.Count())

	for i := 0; i < s.Count(); i++ {
		out += fmt.Sprintf("\n\t%d:", i+1)

		name := s.Name(i)
		pos := 0
		for pos < len(name) && name[pos] != 0 {
			labelLen := int(name[pos])
			pos++
			label := name[pos : pos+labelLen]
			out += fmt.Sprintf(" \\0%o \"%s\"", labelLen, label)
			pos += labelLen
		}
	}

	return out + "\n"
}
