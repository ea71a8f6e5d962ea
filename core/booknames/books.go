package booknames

// Testament identifies which half of the canon a book belongs to.
type Testament string

// Testament constants.
const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Book holds the canonical identifiers for one book of the Protestant canon.
type Book struct {
	// Name is the English display name used by backends (e.g. "1 Samuel").
	Name string `json:"name"`

	// OSIS is the OSIS book code (e.g. "1Sam").
	OSIS string `json:"osis"`

	// USFM is the Unified Standard Format Markers code (e.g. "1SA").
	USFM string `json:"usfm"`

	// Chapters is the number of chapters in the KJV versification.
	Chapters int `json:"chapters"`

	// Testament is OT or NT.
	Testament Testament `json:"testament"`

	// Order is the 1-based canonical position.
	Order int `json:"order"`
}

// books lists all 66 canonical books in canonical order.
var books = []Book{
	{"Genesis", "Gen", "GEN", 50, OldTestament, 1},
	{"Exodus", "Exod", "EXO", 40, OldTestament, 2},
	{"Leviticus", "Lev", "LEV", 27, OldTestament, 3},
	{"Numbers", "Num", "NUM", 36, OldTestament, 4},
	{"Deuteronomy", "Deut", "DEU", 34, OldTestament, 5},
	{"Joshua", "Josh", "JOS", 24, OldTestament, 6},
	{"Judges", "Judg", "JDG", 21, OldTestament, 7},
	{"Ruth", "Ruth", "RUT", 4, OldTestament, 8},
	{"1 Samuel", "1Sam", "1SA", 31, OldTestament, 9},
	{"2 Samuel", "2Sam", "2SA", 24, OldTestament, 10},
	{"1 Kings", "1Kgs", "1KI", 22, OldTestament, 11},
	{"2 Kings", "2Kgs", "2KI", 25, OldTestament, 12},
	{"1 Chronicles", "1Chr", "1CH", 29, OldTestament, 13},
	{"2 Chronicles", "2Chr", "2CH", 36, OldTestament, 14},
	{"Ezra", "Ezra", "EZR", 10, OldTestament, 15},
	{"Nehemiah", "Neh", "NEH", 13, OldTestament, 16},
	{"Esther", "Esth", "EST", 10, OldTestament, 17},
	{"Job", "Job", "JOB", 42, OldTestament, 18},
	{"Psalms", "Ps", "PSA", 150, OldTestament, 19},
	{"Proverbs", "Prov", "PRO", 31, OldTestament, 20},
	{"Ecclesiastes", "Eccl", "ECC", 12, OldTestament, 21},
	{"Song of Songs", "Song", "SNG", 8, OldTestament, 22},
	{"Isaiah", "Isa", "ISA", 66, OldTestament, 23},
	{"Jeremiah", "Jer", "JER", 52, OldTestament, 24},
	{"Lamentations", "Lam", "LAM", 5, OldTestament, 25},
	{"Ezekiel", "Ezek", "EZK", 48, OldTestament, 26},
	{"Daniel", "Dan", "DAN", 12, OldTestament, 27},
	{"Hosea", "Hos", "HOS", 14, OldTestament, 28},
	{"Joel", "Joel", "JOL", 3, OldTestament, 29},
	{"Amos", "Amos", "AMO", 9, OldTestament, 30},
	{"Obadiah", "Obad", "OBA", 1, OldTestament, 31},
	{"Jonah", "Jonah", "JON", 4, OldTestament, 32},
	{"Micah", "Mic", "MIC", 7, OldTestament, 33},
	{"Nahum", "Nah", "NAM", 3, OldTestament, 34},
	{"Habakkuk", "Hab", "HAB", 3, OldTestament, 35},
	{"Zephaniah", "Zeph", "ZEP", 3, OldTestament, 36},
	{"Haggai", "Hag", "HAG", 2, OldTestament, 37},
	{"Zechariah", "Zech", "ZEC", 14, OldTestament, 38},
	{"Malachi", "Mal", "MAL", 4, OldTestament, 39},

	{"Matthew", "Matt", "MAT", 28, NewTestament, 40},
	{"Mark", "Mark", "MRK", 16, NewTestament, 41},
	{"Luke", "Luke", "LUK", 24, NewTestament, 42},
	{"John", "John", "JHN", 21, NewTestament, 43},
	{"Acts", "Acts", "ACT", 28, NewTestament, 44},
	{"Romans", "Rom", "ROM", 16, NewTestament, 45},
	{"1 Corinthians", "1Cor", "1CO", 16, NewTestament, 46},
	{"2 Corinthians", "2Cor", "2CO", 13, NewTestament, 47},
	{"Galatians", "Gal", "GAL", 6, NewTestament, 48},
	{"Ephesians", "Eph", "EPH", 6, NewTestament, 49},
	{"Philippians", "Phil", "PHP", 4, NewTestament, 50},
	{"Colossians", "Col", "COL", 4, NewTestament, 51},
	{"1 Thessalonians", "1Thess", "1TH", 5, NewTestament, 52},
	{"2 Thessalonians", "2Thess", "2TH", 3, NewTestament, 53},
	{"1 Timothy", "1Tim", "1TI", 6, NewTestament, 54},
	{"2 Timothy", "2Tim", "2TI", 4, NewTestament, 55},
	{"Titus", "Titus", "TIT", 3, NewTestament, 56},
	{"Philemon", "Phlm", "PHM", 1, NewTestament, 57},
	{"Hebrews", "Heb", "HEB", 13, NewTestament, 58},
	{"James", "Jas", "JAS", 5, NewTestament, 59},
	{"1 Peter", "1Pet", "1PE", 5, NewTestament, 60},
	{"2 Peter", "2Pet", "2PE", 3, NewTestament, 61},
	{"1 John", "1John", "1JN", 5, NewTestament, 62},
	{"2 John", "2John", "2JN", 1, NewTestament, 63},
	{"3 John", "3John", "3JN", 1, NewTestament, 64},
	{"Jude", "Jude", "JUD", 1, NewTestament, 65},
	{"Revelation", "Rev", "REV", 22, NewTestament, 66},
}

// aliases maps alternative lower-case names onto the canonical lower-case name.
var aliases = map[string]string{
	"psalm":           "psalms",
	"song of solomon": "song of songs",
}
