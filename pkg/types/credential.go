package types

// CredentialFields 凭证原始字段（文本形式）
//
// ID、Name 为 Base58 文本；Secret、Nonce、Birth 为十六进制文本。
type CredentialFields struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
	Nonce  string `json:"nonce"`
	Name   string `json:"name"`
	Birth  string `json:"birth"`
}

// SetupArtifacts 可信设置产物（0x 前缀十六进制）
type SetupArtifacts struct {
	ProvingKey   string `json:"proving_key"`
	VerifyingKey string `json:"verifying_key"`
}

// ProofOutput 证明输出
type ProofOutput struct {
	ProofID         string   `json:"proof_id"`
	Proof           string   `json:"proof"`             // 0x 前缀十六进制
	Commitment      string   `json:"commitment"`        // 0x 前缀十六进制（32 字节小端）
	NameBirthDigest string   `json:"name_birth_digest"` // 0x 前缀十六进制（40 字节）
	Statement       []string `json:"statement"`         // 十进制字段元素
}
