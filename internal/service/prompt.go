package service

import (
	"fmt"
	"strings"

	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/shopspring/decimal"
)

const systemInstruction = "Anda adalah DebtBot, asisten virtual keuangan pribadi. " +
	"Hanya jawab pertanyaan tentang keuangan, utang, pengeluaran, dan saran finansial. " +
	"Jangan menjawab hal lain di luar topik ini."

const chatStyleInstruction = "Berikan response yang interaktif. " +
	"Gunakan bahasa yang ramah dan bersahabat dengan gaya senatural mungkin."

const riskInstruction = `Tugas: Nilai tingkat risiko keuangan pengguna berdasarkan data di atas.
Pertimbangkan perbandingan pengeluaran dan cicilan terhadap pemasukan, sisa utang, jumlah tanggungan, dan riwayat kredit.
Jawab HANYA dalam satu baris dengan format:
<Rendah|Sedang|Tinggi>: <penjelasan singkat>
Contoh: Tinggi: Pengeluaran bulanan melebihi pemasukan.`

const assistantName = "DebtBot"

// formatRupiah renders an amount as whole Rupiah with dot thousands separators
func formatRupiah(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	digits := rounded.Abs().StringFixed(0)

	var sb strings.Builder
	if rounded.IsNegative() {
		sb.WriteString("-")
	}
	sb.WriteString("Rp")
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	return sb.String()
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Tidak diketahui"
	}
	return value
}

func yesNo(b bool) string {
	if b {
		return "Ya"
	}
	return "Tidak"
}

// renderProfile writes the user's financial situation as a plain-language document
func renderProfile(sb *strings.Builder, summary *models.FinancialSummary) {
	user := summary.User

	sb.WriteString("Profil Pengguna:\n")
	fmt.Fprintf(sb, "- Nama: %s\n", orUnknown(user.FullName))
	if user.Age > 0 {
		fmt.Fprintf(sb, "- Usia: %d tahun\n", user.Age)
	}
	fmt.Fprintf(sb, "- Pekerjaan: %s\n", orUnknown(user.Occupation))
	fmt.Fprintf(sb, "- Pemasukan bulanan: %s\n", formatRupiah(user.MonthlyIncome))
	fmt.Fprintf(sb, "- Jumlah tanggungan: %d\n", summary.DependentsCount)

	sb.WriteString("\nRingkasan Keuangan:\n")
	fmt.Fprintf(sb, "- Total pemasukan tercatat: %s\n", formatRupiah(summary.TotalIncome))
	fmt.Fprintf(sb, "- Total pengeluaran tercatat: %s\n", formatRupiah(summary.TotalExpense))
	fmt.Fprintf(sb, "- Arus kas bersih: %s\n", formatRupiah(summary.NetCashFlow))
	fmt.Fprintf(sb, "- Total cicilan bulanan: %s\n", formatRupiah(summary.TotalMonthlyInstallment))
	fmt.Fprintf(sb, "- Sisa utang: %s\n", formatRupiah(summary.TotalRemainingDebt))
	fmt.Fprintf(sb, "- Total nilai aset: %s\n", formatRupiah(summary.TotalAssetValue))

	sb.WriteString("\nRiwayat Transaksi Terakhir:\n")
	if len(summary.RecentTransactions) == 0 {
		sb.WriteString("Tidak ada transaksi.\n")
	}
	for _, tx := range summary.RecentTransactions {
		category := tx.Category
		if category == "" {
			category = "tidak diketahui"
		}
		fmt.Fprintf(sb, "- %s: %s untuk %s\n", tx.Type, formatRupiah(tx.Amount), category)
	}

	sb.WriteString("\nUtang:\n")
	if len(summary.Loans) == 0 {
		sb.WriteString("Tidak ada utang.\n")
	}
	for _, loan := range summary.Loans {
		label := loan.LoanType
		if loan.Name != "" {
			label = strings.TrimSpace(label + " " + loan.Name)
		}
		status := "lunas"
		if loan.IsActive {
			status = "aktif"
		}
		fmt.Fprintf(sb, "- %s: Cicilan %s per bulan, sisa %d dari %d bulan (%s)\n",
			orUnknown(label), formatRupiah(loan.MonthlyPayment), loan.RemainingMonths(), loan.TotalMonths, status)
	}

	credit := summary.CreditHistory
	sb.WriteString("\nRiwayat Kredit:\n")
	fmt.Fprintf(sb, "- Total pinjaman sebelumnya: %d\n", credit.TotalLoansTaken)
	fmt.Fprintf(sb, "- Jumlah keterlambatan bayar: %d\n", credit.MissedPayments)
	fmt.Fprintf(sb, "- Pernah gagal bayar: %s\n", yesNo(credit.HasDefaultHistory))
}

// BuildRiskPrompt renders the scoring prompt with its closed answer format
func BuildRiskPrompt(summary *models.FinancialSummary) string {
	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\n")
	renderProfile(&sb, summary)
	sb.WriteString("\n")
	sb.WriteString(riskInstruction)
	return sb.String()
}

// BuildChatPrompt renders the assistant prompt: profile, earlier turns, then the new message
func BuildChatPrompt(summary *models.FinancialSummary, history []models.ChatMessage, message string) string {
	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString(" ")
	sb.WriteString(chatStyleInstruction)
	sb.WriteString("\n\n")
	renderProfile(&sb, summary)

	if summary.LatestRiskScore != nil {
		fmt.Fprintf(&sb, "\nSkor Risiko Terakhir: %s\n", summary.LatestRiskScore.RiskLevel)
	} else {
		sb.WriteString("\nSkor Risiko Terakhir: Belum dihitung\n")
	}

	if len(history) > 0 {
		sb.WriteString("\nPercakapan Sebelumnya:\n")
		for _, msg := range history {
			speaker := "User"
			if msg.Role == models.RoleAssistant {
				speaker = assistantName
			}
			fmt.Fprintf(&sb, "%s: %s\n", speaker, msg.Content)
		}
	}

	sb.WriteString("\nUser: ")
	sb.WriteString(message)
	return sb.String()
}
