package storage

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/annel0/voxelly/internal/world"
	"github.com/annel0/voxelly/internal/world/block"
)

// Формат файла мира (little-endian):
//
//	u32 длина имени | имя | u32 число чанков |
//	число чанков × (u64 ключ | i32 x | i32 y | i32 z | 4096 байт ячеек)
const (
	// MaxNameLength ограничение длины имени мира
	MaxNameLength = 64 * 1024
	// ChunkRecordSize размер записи одного чанка
	ChunkRecordSize = 8 + 3*4 + world.ChunkVolume
)

// AppendChunkRecord дописывает запись чанка в buf
func AppendChunkRecord(buf []byte, key world.ChunkKey, cd *ChunkData) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(key))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(cd.X))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(cd.Y))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(cd.Z))
	for _, id := range cd.Data {
		buf = append(buf, byte(id))
	}
	return buf
}

// DecodeChunkRecord разбирает запись чанка ровно из ChunkRecordSize байт
func DecodeChunkRecord(rec []byte) (world.ChunkKey, *ChunkData, error) {
	if len(rec) != ChunkRecordSize {
		return 0, nil, fmt.Errorf("%w: запись чанка %d байт, ожидалось %d", ErrCorrupt, len(rec), ChunkRecordSize)
	}

	stored := world.ChunkKey(binary.LittleEndian.Uint64(rec[0:8]))
	cd := &ChunkData{
		X: int32(binary.LittleEndian.Uint32(rec[8:12])),
		Y: int32(binary.LittleEndian.Uint32(rec[12:16])),
		Z: int32(binary.LittleEndian.Uint32(rec[16:20])),
	}
	for i, b := range rec[20:] {
		cd.Data[i] = block.BlockID(b)
	}

	key, ok := cd.Key()
	if !ok {
		return 0, nil, fmt.Errorf("%w: координаты чанка (%d,%d,%d) вне допустимого диапазона", ErrCorrupt, cd.X, cd.Y, cd.Z)
	}
	if key != stored {
		return 0, nil, fmt.Errorf("%w: ключ %d не совпадает с координатами (%d,%d,%d)", ErrCorrupt, stored, cd.X, cd.Y, cd.Z)
	}
	return key, cd, nil
}

// MarshalBinary кодирует снимок в бинарный формат
func (a *WorldAsset) MarshalBinary() ([]byte, error) {
	if len(a.Name) > MaxNameLength {
		return nil, fmt.Errorf("имя мира длиннее %d байт", MaxNameLength)
	}

	buf := make([]byte, 0, 8+len(a.Name)+len(a.Chunks)*ChunkRecordSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(a.Name)))
	buf = append(buf, a.Name...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(a.Chunks)))
	for _, key := range a.Keys() {
		buf = AppendChunkRecord(buf, key, a.Chunks[key])
	}
	return buf, nil
}

// Encode пишет снимок в w
func (a *WorldAsset) Encode(w io.Writer) error {
	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// UnmarshalBinary разбирает снимок, проверяя все заявленные длины
func (a *WorldAsset) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}

// Decode читает снимок из r. Обрезанные данные, несовпадающие ключи,
// дубликаты и лишние байты в конце дают ErrCorrupt.
func Decode(r io.Reader) (*WorldAsset, error) {
	br := bufio.NewReader(r)
	var hdr [4]byte

	if err := readFull(br, hdr[:], "длина имени"); err != nil {
		return nil, err
	}
	nameLen := binary.LittleEndian.Uint32(hdr[:])
	if nameLen > MaxNameLength {
		return nil, fmt.Errorf("%w: длина имени %d больше допустимой", ErrCorrupt, nameLen)
	}
	name := make([]byte, nameLen)
	if err := readFull(br, name, "имя мира"); err != nil {
		return nil, err
	}

	if err := readFull(br, hdr[:], "число чанков"); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(hdr[:])
	if sized, ok := r.(interface{ Len() int }); ok {
		// для данных в памяти заявленное число чанков проверяется сразу
		if remaining := uint64(sized.Len()) + uint64(br.Buffered()); uint64(count)*ChunkRecordSize > remaining {
			return nil, fmt.Errorf("%w: заявлено %d чанков, данных хватает на %d", ErrCorrupt, count, remaining/ChunkRecordSize)
		}
	}

	a := NewWorldAsset(string(name))
	rec := make([]byte, ChunkRecordSize)
	for i := uint32(0); i < count; i++ {
		if err := readFull(br, rec, fmt.Sprintf("чанк %d из %d", i+1, count)); err != nil {
			return nil, err
		}
		key, cd, err := DecodeChunkRecord(rec)
		if err != nil {
			return nil, err
		}
		if _, dup := a.Chunks[key]; dup {
			return nil, fmt.Errorf("%w: повторный чанк %s", ErrCorrupt, key)
		}
		a.Chunks[key] = cd
	}

	if _, err := br.ReadByte(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения мира: %w", err)
		}
		return nil, fmt.Errorf("%w: лишние байты после последнего чанка", ErrCorrupt)
	}
	return a, nil
}

func readFull(r io.Reader, buf []byte, what string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: данные обрываются на поле %q", ErrCorrupt, what)
		}
		return fmt.Errorf("ошибка чтения мира (%s): %w", what, err)
	}
	return nil
}
