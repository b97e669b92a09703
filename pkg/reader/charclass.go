package reader

// Byte-class tables for the tokenizer. Keeping these as plain 256-entry
// arrays makes classification a single index, which matters because the
// reader dispatches on every byte of the input.

// isSpace marks the JSON whitespace characters.
var isSpace = [256]bool{
	'\t': true,
	'\n': true,
	'\r': true,
	' ':  true,
}

// isSpaceOrPrefix additionally marks the structural bytes that may precede a
// field: ',', '{' and '['.
var isSpaceOrPrefix = [256]bool{
	'\t': true,
	'\n': true,
	'\r': true,
	' ':  true,
	',':  true,
	'[':  true,
	'{':  true,
}

// isNumber marks the characters that may appear in a number literal:
// 0-9 . e E -
var isNumber = [256]bool{
	'-': true,
	'.': true,
	'0': true,
	'1': true,
	'2': true,
	'3': true,
	'4': true,
	'5': true,
	'6': true,
	'7': true,
	'8': true,
	'9': true,
	'e': true,
	'E': true,
}
