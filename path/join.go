package path

import "strings"

// Join concatenates fragments, inserting or eliding exactly one '/' between
// consecutive non-empty fragments so the result never contains "//". Empty
// fragments are skipped. It mirrors PRoot's join_paths(), generalized from
// a fixed varargs count to a slice.
func Join(fragments ...string) (string, error) {
	var b strings.Builder

	for _, frag := range fragments {
		if frag == "" {
			continue
		}

		if b.Len() > 0 {
			last := b.String()[b.Len()-1]
			switch {
			case last != '/' && frag[0] != '/':
				b.WriteByte('/')
			case last == '/' && frag[0] == '/':
				frag = frag[1:]
			}
		}

		if b.Len()+len(frag) >= PathMax {
			return "", ErrNameTooLong
		}
		b.WriteString(frag)
	}

	return b.String(), nil
}
