package service

import (
	"strings"
	"testing"

	"github.com/Dan9191/debtwatch-service/internal/models"
	"github.com/shopspring/decimal"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Rp0"},
		{"999", "Rp999"},
		{"1000", "Rp1.000"},
		{"5000000", "Rp5.000.000"},
		{"1234.6", "Rp1.235"},
		{"-1500", "-Rp1.500"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := formatRupiah(decimal.RequireFromString(tt.amount)); got != tt.want {
				t.Errorf("formatRupiah(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func sampleSummary() *models.FinancialSummary {
	user := models.User{ID: "u1", FullName: "Budi", Age: 30, Occupation: "Guru", MonthlyIncome: decimal.NewFromInt(5000000)}
	transactions := []models.Transaction{
		{Type: models.TransactionExpense, Amount: decimal.NewFromInt(6000000), Category: "sewa"},
		{Type: models.TransactionIncome, Amount: decimal.NewFromInt(5000000), Category: "gaji"},
	}
	loans := []models.Loan{
		{LoanType: "KPR", MonthlyPayment: decimal.NewFromInt(2000000), TotalMonths: 120, MonthsPaid: 20, IsActive: true},
	}
	return Summarize(user, transactions, loans, nil, &models.Dependents{DependentsCount: 2}, nil)
}

func TestBuildRiskPrompt(t *testing.T) {
	prompt := BuildRiskPrompt(sampleSummary())

	for _, want := range []string{
		"DebtBot",
		"- Nama: Budi",
		"- Pemasukan bulanan: Rp5.000.000",
		"- Jumlah tanggungan: 2",
		"- Total pengeluaran tercatat: Rp6.000.000",
		"- Arus kas bersih: -Rp1.000.000",
		"- KPR: Cicilan Rp2.000.000 per bulan, sisa 100 dari 120 bulan (aktif)",
		"- Pernah gagal bayar: Tidak",
		"<Rendah|Sedang|Tinggi>: <penjelasan singkat>",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q\n%s", want, prompt)
		}
	}

	if again := BuildRiskPrompt(sampleSummary()); again != prompt {
		t.Error("prompt is not deterministic for the same summary")
	}
}

func TestBuildRiskPromptEmptyRecords(t *testing.T) {
	summary := Summarize(models.User{ID: "u1"}, nil, nil, nil, nil, nil)
	prompt := BuildRiskPrompt(summary)

	for _, want := range []string{"- Nama: Tidak diketahui", "Tidak ada transaksi.", "Tidak ada utang."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

func TestBuildChatPrompt(t *testing.T) {
	summary := sampleSummary()
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "Halo"},
		{Role: models.RoleAssistant, Content: "Halo juga, ada yang bisa dibantu?"},
	}

	prompt := BuildChatPrompt(summary, history, "Bagaimana cara melunasi KPR?")

	if !strings.Contains(prompt, "Skor Risiko Terakhir: Belum dihitung") {
		t.Error("expected placeholder for missing risk score")
	}
	if !strings.Contains(prompt, "User: Halo\nDebtBot: Halo juga, ada yang bisa dibantu?\n") {
		t.Errorf("history not rendered in order:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "\nUser: Bagaimana cara melunasi KPR?") {
		t.Error("prompt must end with the new message")
	}

	summary.LatestRiskScore = &models.RiskScore{RiskLevel: models.RiskHigh}
	if prompt := BuildChatPrompt(summary, nil, "Hai"); !strings.Contains(prompt, "Skor Risiko Terakhir: High") {
		t.Error("expected latest risk level in prompt")
	}
}
