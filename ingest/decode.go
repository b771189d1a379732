package ingest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Byte order marks recognized at the head of the stream.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeFile opens the tap output and decodes it to lines of text. The
// stream historically arrives as UTF-8, UTF-16 with or without a BOM, or
// Latin-1, so those are tried in that order. A file that cannot be opened
// is a resource error; everything past this point works on decoded text.
func DecodeFile(path string, log *logrus.Logger) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record stream: %w", err)
	}

	text, encodingName, err := decodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record stream %s: %w", path, err)
	}

	lines := splitLines(text)

	log.WithFields(logrus.Fields{
		"path":     path,
		"encoding": encodingName,
		"lines":    len(lines),
	}).Info("Decoded record stream")

	return lines, nil
}

func decodeBytes(data []byte) (string, string, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		return string(bytes.TrimPrefix(data, bomUTF8)), "utf-8", nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		text, err := decodeUTF16(data, unicode.UseBOM)
		if err != nil {
			return "", "", err
		}

		return text, "utf-16", nil
	}

	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	for _, attempt := range []struct {
		name   string
		endian unicode.Endianness
	}{
		{"utf-16le", unicode.LittleEndian},
		{"utf-16be", unicode.BigEndian},
	} {
		if len(data)%2 != 0 {
			break
		}

		text, err := decodeUTF16WithEndianness(data, attempt.endian)
		if err == nil && utf16Plausible(text) {
			return text, attempt.name, nil
		}
	}

	// Latin-1 maps every byte; the decoder cannot fail.
	text, err := charmap.ISO8859_1.NewDecoder().String(string(data))
	if err != nil {
		return "", "", err
	}

	return text, "latin-1", nil
}

func decodeUTF16(data []byte, policy unicode.BOMPolicy) (string, error) {
	decoder := unicode.UTF16(unicode.LittleEndian, policy).NewDecoder()
	return decoder.String(string(data))
}

func decodeUTF16WithEndianness(data []byte, endian unicode.Endianness) (string, error) {
	decoder := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
	return decoder.String(string(data))
}

// utf16Plausible rejects BOM-less UTF-16 guesses that decoded to garbage.
func utf16Plausible(text string) bool {
	return !strings.ContainsRune(text, utf8.RuneError) && !strings.ContainsRune(text, 0)
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
