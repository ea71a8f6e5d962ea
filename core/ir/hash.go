package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// jsonMarshal is a variable to allow testing of marshal errors.
var jsonMarshal = json.Marshal

// jsonMarshalIndent is a variable to allow testing of marshal errors.
var jsonMarshalIndent = json.MarshalIndent

// HashCorpus returns the hex SHA-256 of the corpus in its canonical JSON
// form. Corpora decoded from legacy and typed input hash the same.
func HashCorpus(c *Corpus) (string, error) {
	data, err := jsonMarshal(c)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}
