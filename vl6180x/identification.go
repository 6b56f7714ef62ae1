package vl6180x

// Identification is the decoded identification block at 0x000.
//
// Layout (one register per byte):
//
//	0x000     MODEL_ID            8 bits
//	0x001     MODEL_REV_MAJOR     bits 2:0
//	0x002     MODEL_REV_MINOR     bits 2:0
//	0x003     MODULE_REV_MAJOR    bits 2:0
//	0x004     MODULE_REV_MINOR    bits 2:0
//	0x006     DATE_HI             year bits 7:4, month bits 3:0
//	0x007     DATE_LO             day bits 7:3, phase bits 2:0
//	0x008-9   TIME                big-endian, seconds since midnight / 2
type Identification struct {
	ModelID        uint8
	ModelRevMajor  uint8
	ModelRevMinor  uint8
	ModuleRevMajor uint8
	ModuleRevMinor uint8
	Year           uint8 // last digit of the manufacturing year
	Month          uint8
	Day            uint8
	Phase          uint8
	Time           uint16
}

// DecodeIdentification decodes a block read from IDENTIFICATION_MODEL_ID.
// Short blocks decode the fields that are present.
func DecodeIdentification(b []byte) Identification {
	var raw [IdentificationLength]byte
	copy(raw[:], b)
	return Identification{
		ModelID:        raw[0],
		ModelRevMajor:  raw[1] & 0x07,
		ModelRevMinor:  raw[2] & 0x07,
		ModuleRevMajor: raw[3] & 0x07,
		ModuleRevMinor: raw[4] & 0x07,
		Year:           raw[6] >> 4,
		Month:          raw[6] & 0x0F,
		Day:            raw[7] >> 3,
		Phase:          raw[7] & 0x07,
		Time:           uint16(raw[8])<<8 | uint16(raw[9]),
	}
}

// Valid reports whether the block came from a VL6180X.
func (id Identification) Valid() bool {
	return id.ModelID == ExpectedModelID
}

// Identify reads and decodes the identification block.
func (d *Device) Identify() (Identification, error) {
	var buf [IdentificationLength]byte
	if err := d.ReadRegisterRange(IDENTIFICATION_MODEL_ID, buf[:]); err != nil {
		return Identification{}, err
	}
	return DecodeIdentification(buf[:]), nil
}
