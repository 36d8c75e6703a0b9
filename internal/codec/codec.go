// Package codec reads and writes ledger snapshots in the pipe-delimited text
// format:
//
//	Items:
//	name|price|category|stock|expirationDate
//	Customers:
//	name|id|membershipType|loyaltyPoints
//
// Fields are not escaped, so a value containing '|' or a line break cannot be
// written. Encode refuses such values instead of producing a file that would
// not read back.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/store"
	"github.com/shopspring/decimal"
)

const (
	ItemsHeader     = "Items:"
	CustomersHeader = "Customers:"
	sep             = "|"

	// maxLineSize bounds a single record line.
	maxLineSize = 1 << 20
)

var (
	ErrIO          = errors.New("i/o error")
	ErrMalformed   = errors.New("malformed record")
	ErrUnencodable = errors.New("field cannot be encoded")
)

// Encode writes both sections, items first.
func Encode(w io.Writer, s store.Snapshot) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(ItemsHeader + "\n")
	for _, it := range s.Items {
		line, err := joinFields(
			it.Name,
			it.Price.String(),
			it.Category,
			strconv.Itoa(it.Stock),
			it.ExpirationString(),
		)
		if err != nil {
			return fmt.Errorf("item %q: %w", it.Name, err)
		}
		bw.WriteString(line + "\n")
	}

	bw.WriteString(CustomersHeader + "\n")
	for _, c := range s.Customers {
		line, err := joinFields(
			c.Name,
			strconv.Itoa(c.ID),
			c.Membership,
			c.LoyaltyPoints.String(),
		)
		if err != nil {
			return fmt.Errorf("customer %d: %w", c.ID, err)
		}
		bw.WriteString(line + "\n")
	}

	return bw.Flush()
}

func joinFields(fields ...string) (string, error) {
	for _, f := range fields {
		if strings.ContainsAny(f, sep+"\r\n") {
			return "", fmt.Errorf("%w: %q", ErrUnencodable, f)
		}
	}
	return strings.Join(fields, sep), nil
}

type section int

const (
	sectionNone section = iota
	sectionItems
	sectionCustomers
)

// Decode parses a snapshot. A section runs until a blank line, the next
// header, or end of input; lines outside a section are ignored. Any malformed
// record fails the whole decode.
func Decode(r io.Reader) (store.Snapshot, error) {
	var s store.Snapshot
	cur := sectionNone

	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")

		switch strings.TrimSpace(line) {
		case ItemsHeader:
			cur = sectionItems
			continue
		case CustomersHeader:
			cur = sectionCustomers
			continue
		case "":
			cur = sectionNone
			continue
		}

		switch cur {
		case sectionItems:
			it, err := decodeItem(line)
			if err != nil {
				return store.Snapshot{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			s.Items = append(s.Items, it)
		case sectionCustomers:
			c, err := decodeCustomer(line)
			if err != nil {
				return store.Snapshot{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			s.Customers = append(s.Customers, c)
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return store.Snapshot{}, fmt.Errorf("line %d: %w: longer than %d bytes", lineNo+1, ErrMalformed, maxLineSize)
		}
		return store.Snapshot{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return s, nil
}

// parseExpiration reads the date exactly as Encode writes it.
func parseExpiration(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(model.DateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeItem(line string) (model.Item, error) {
	f := strings.Split(line, sep)
	// A record written without the trailing separator has no expiration date.
	if len(f) == 4 {
		f = append(f, "")
	}
	if len(f) != 5 {
		return model.Item{}, fmt.Errorf("%w: item wants 5 fields, got %d", ErrMalformed, len(f))
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f[1]))
	if err != nil {
		return model.Item{}, fmt.Errorf("%w: price %q", ErrMalformed, f[1])
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f[3]))
	if err != nil {
		return model.Item{}, fmt.Errorf("%w: stock %q", ErrMalformed, f[3])
	}
	expires, err := parseExpiration(strings.TrimSpace(f[4]))
	if err != nil {
		return model.Item{}, fmt.Errorf("%w: expiration date %q", ErrMalformed, f[4])
	}

	return model.Item{
		Name:      f[0],
		Price:     price,
		Category:  f[2],
		Stock:     stock,
		ExpiresOn: expires,
	}, nil
}

func decodeCustomer(line string) (store.CustomerRecord, error) {
	f := strings.Split(line, sep)
	if len(f) != 4 {
		return store.CustomerRecord{}, fmt.Errorf("%w: customer wants 4 fields, got %d", ErrMalformed, len(f))
	}

	id, err := strconv.Atoi(strings.TrimSpace(f[1]))
	if err != nil {
		return store.CustomerRecord{}, fmt.Errorf("%w: id %q", ErrMalformed, f[1])
	}
	points, err := decimal.NewFromString(strings.TrimSpace(f[3]))
	if err != nil {
		return store.CustomerRecord{}, fmt.Errorf("%w: loyalty points %q", ErrMalformed, f[3])
	}

	return store.CustomerRecord{
		Name:          f[0],
		ID:            id,
		Membership:    f[2],
		LoyaltyPoints: points,
	}, nil
}

// SaveFile encodes the snapshot to path, replacing the file. Nothing is
// written if any record cannot be encoded.
func SaveFile(path string, s store.Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w: %w", path, ErrIO, err)
	}
	return nil
}

func LoadFile(path string) (store.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("load %s: %w: %w", path, ErrIO, err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}
