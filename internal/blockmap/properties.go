package blockmap

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Property пара ключ=значение из конфигурационного файла карты
type Property struct {
	Line  int
	Key   string
	Value string
}

// ReadProperties читает строки "key=value"; '#' и '!' начинают комментарий.
// Любая некорректная строка отклоняет весь файл.
func ReadProperties(r io.Reader) ([]Property, error) {
	var props []Property
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' || text[0] == '!' {
			continue
		}
		// Ключи блоков содержат ':' в пространстве имён, поэтому разделитель только '='
		i := strings.IndexByte(text, '=')
		if i <= 0 {
			return nil, fmt.Errorf("line %d: expected key=value", line)
		}
		props = append(props, Property{
			Line:  line,
			Key:   strings.TrimSpace(text[:i]),
			Value: strings.TrimSpace(text[i+1:]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read properties: %w", err)
	}
	return props, nil
}
