package state

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

func Test_CommitMinedBlock(t *testing.T) {
	const success, failed = "✓", "✗"

	t.Log("Given the need to commit exactly what was mined.")
	{
		gen := genesis.Default()
		gen.Difficulty = 1

		st, err := New(Config{BeneficiaryAddress: "node", Host: "localhost:9080", Genesis: gen})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}

		mined := database.Tx{ID: "mined", Amount: 1, Sender: "A", Recipient: "B"}
		late := database.Tx{ID: "late", Amount: 2, Sender: "C", Recipient: "D"}

		st.AddToPendingPool(mined)
		prev := st.LastBlock()
		snapshot := st.RetrieveMempool()

		// A transaction arriving while the puzzle is being solved.
		st.AddToPendingPool(late)

		t.Logf("\tTest 0:\tWhen the chain did not move.")
		{
			block, err := st.commitMinedBlock(prev, 7, "0abc", snapshot)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould commit the block: %v", failed, err)
			}
			if len(block.Transactions) != 1 || block.Transactions[0].ID != "mined" {
				t.Fatalf("\t%s\tTest 0:\tShould hold only the mined snapshot: %v", failed, block.Transactions)
			}
			t.Logf("\t%s\tTest 0:\tShould hold only the mined snapshot.", success)

			pool := st.RetrieveMempool()
			if len(pool) != 1 || pool[0].ID != "late" {
				t.Fatalf("\t%s\tTest 0:\tShould keep the late transaction pending: %v", failed, pool)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the late transaction pending.", success)
		}

		t.Logf("\tTest 1:\tWhen the chain moved.")
		{
			if _, err := st.commitMinedBlock(prev, 7, "0abc", snapshot); !errors.Is(err, ErrChainMoved) {
				t.Fatalf("\t%s\tTest 1:\tShould discard the block: %v", failed, err)
			}
			if st.QueryChainLength() != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain unchanged.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould discard the block.", success)
		}
	}
}
