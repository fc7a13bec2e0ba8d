package berlin

// translitTable maps non-ASCII letters that survive diacritic stripping
// (ligatures, Cyrillic, Greek, and a handful of Latin Extended letters with
// no combining-mark decomposition) to an ASCII approximation. Anything not
// listed here is dropped during normalization, per spec. The table is a
// calibration decision, not a correctness one: it covers the common cases
// seen in UN/LOCODE and ISO-3166 name data, not exhaustive Unicode.
var translitTable = map[rune]string{
	// Latin ligatures and letters with no NFD decomposition.
	'ß': "ss",
	'æ': "ae",
	'Æ': "AE",
	'œ': "oe",
	'Œ': "OE",
	'ø': "o",
	'Ø': "O",
	'ð': "d",
	'Ð': "D",
	'þ': "th",
	'Þ': "Th",
	'ł': "l",
	'Ł': "L",
	'đ': "d",
	'Đ': "D",
	'ħ': "h",
	'Ħ': "H",
	'ŋ': "n",
	'Ŋ': "N",
	'ı': "i",

	// Cyrillic (common ISO 9-ish transliteration, simplified for search).
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "i", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D",
	'Е': "E", 'Ё': "E", 'Ж': "Zh", 'З': "Z", 'И': "I",
	'Й': "I", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
	'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
	'У': "U", 'Ф': "F", 'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch",
	'Ш': "Sh", 'Щ': "Shch", 'Ъ': "", 'Ы': "Y", 'Ь': "",
	'Э': "E", 'Ю': "Yu", 'Я': "Ya",

	// Greek (common transliteration).
	'α': "a", 'β': "b", 'γ': "g", 'δ': "d", 'ε': "e",
	'ζ': "z", 'η': "i", 'θ': "th", 'ι': "i", 'κ': "k",
	'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "x", 'ο': "o",
	'π': "p", 'ρ': "r", 'σ': "s", 'ς': "s", 'τ': "t",
	'υ': "y", 'φ': "f", 'χ': "ch", 'ψ': "ps", 'ω': "o",
	'Α': "A", 'Β': "B", 'Γ': "G", 'Δ': "D", 'Ε': "E",
	'Ζ': "Z", 'Η': "I", 'Θ': "Th", 'Ι': "I", 'Κ': "K",
	'Λ': "L", 'Μ': "M", 'Ν': "N", 'Ξ': "X", 'Ο': "O",
	'Π': "P", 'Ρ': "R", 'Σ': "S", 'Τ': "T", 'Υ': "Y",
	'Φ': "F", 'Χ': "Ch", 'Ψ': "Ps", 'Ω': "O",
}

// transliterate replaces every rune covered by translitTable with its ASCII
// approximation and drops everything else outside ASCII, leaving ASCII
// runes untouched.
func transliterate(s string) string {
	hasNonASCII := false
	for _, r := range s {
		if r >= 0x80 {
			hasNonASCII = true
			break
		}
	}
	if !hasNonASCII {
		return s
	}

	var b []byte
	for _, r := range s {
		if r < 0x80 {
			b = append(b, byte(r))
			continue
		}
		if repl, ok := translitTable[r]; ok {
			b = append(b, repl...)
		}
	}
	return string(b)
}
