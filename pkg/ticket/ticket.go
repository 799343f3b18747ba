package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
)

// ==================== PRINT PAYLOADS ====================

// EntryTicketData holds what gets printed when a vehicle enters a queue.
type EntryTicketData struct {
	LicensePlate string
	Destination  string
	Position     int
	Fee          float64
	HasDayPass   bool
	IssuedAt     time.Time
}

// ExitPassData holds what gets printed when a vehicle is authorized to leave.
type ExitPassData struct {
	LicensePlate     string
	Destination      string
	SeatsUsed        int
	IssuedBy         string
	IssuedAt         time.Time
	PrevLicensePlate string
	PrevIssuedAt     *time.Time
}

// BuildEntryTicket renders the entry ticket PDF. When the vehicle already
// holds a valid day pass the fee line prints as zero.
func BuildEntryTicket(d EntryTicketData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tiket Masuk", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TIKET MASUK ANTRIAN")
	pdf.Ln(12)

	fee := d.Fee
	feeNote := ""
	if d.HasDayPass {
		fee = 0
		feeNote = " (pas harian berlaku)"
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("No Polisi   : %s", d.LicensePlate),
		fmt.Sprintf("Jurusan     : %s", d.Destination),
		fmt.Sprintf("Urutan      : %d", d.Position),
		fmt.Sprintf("Biaya       : Rp %.0f%s", fee, feeNote),
		fmt.Sprintf("Waktu       : %s", d.IssuedAt.Format("2006-01-02 15:04")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Simpan tiket ini selama kendaraan berada di area stasiun.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("MASUK_%s_%s.pdf", d.LicensePlate, d.IssuedAt.Format("20060102150405"))
	return buf.Bytes(), filename, nil
}

// BuildExitPass renders the exit authorization PDF. The previous departure
// for the same destination, when known, is printed so the gate can verify
// ordering.
func BuildExitPass(d ExitPassData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Surat Jalan", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SURAT JALAN")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("No Polisi     : %s", d.LicensePlate),
		fmt.Sprintf("Jurusan       : %s", d.Destination),
		fmt.Sprintf("Penumpang     : %d kursi", d.SeatsUsed),
		fmt.Sprintf("Petugas       : %s", d.IssuedBy),
		fmt.Sprintf("Waktu         : %s", d.IssuedAt.Format("2006-01-02 15:04")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	if d.PrevIssuedAt != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Keberangkatan sebelumnya: %s (%s)",
			d.PrevLicensePlate, d.PrevIssuedAt.Format("15:04")))
	} else {
		pdf.Cell(0, 7, "Keberangkatan pertama hari ini untuk jurusan ini")
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Surat jalan hanya berlaku satu kali untuk keberangkatan ini.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("SJ_%s_%s.pdf", d.LicensePlate, d.IssuedAt.Format("20060102150405"))
	return buf.Bytes(), filename, nil
}
