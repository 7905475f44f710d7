package conversation

import "testing"

func TestExtractConcernInfo(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		wantType     string
		wantCounty   string
		wantAmount   float64
		amountFilled bool
	}{
		{
			name:         "full statement",
			message:      "my residential property in harris county is valued at $450,000",
			wantType:     "residential",
			wantCounty:   "Harris",
			wantAmount:   450000,
			amountFilled: true,
		},
		{
			name:     "home maps to residential",
			message:  "it's my home",
			wantType: "residential",
		},
		{
			name:     "business maps to commercial",
			message:  "a small business property",
			wantType: "commercial",
		},
		{
			name:     "vacant maps to land",
			message:  "a vacant lot",
			wantType: "land",
		},
		{
			name:       "multiword county",
			message:    "the property is in fort bend",
			wantCounty: "Fort Bend",
		},
		{
			name:         "grouped amount without currency sign",
			message:      "assessed at 450,000 this year",
			wantAmount:   450000,
			amountFilled: true,
		},
		{
			name:         "bare digit run",
			message:      "they say it is worth 450000",
			wantAmount:   450000,
			amountFilled: true,
		},
		{
			name:         "decimal currency",
			message:      "$1,250.50 per installment",
			wantAmount:   1250.50,
			amountFilled: true,
		},
		{
			name:    "nothing extractable",
			message: "I'm not sure yet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext("s1", "c1", wednesday)
			ExtractConcernInfo(c, tt.message)
			if c.PropertyType != tt.wantType {
				t.Errorf("PropertyType = %q, want %q", c.PropertyType, tt.wantType)
			}
			if c.County != tt.wantCounty {
				t.Errorf("County = %q, want %q", c.County, tt.wantCounty)
			}
			if tt.amountFilled {
				if c.AssessmentAmount == nil {
					t.Fatal("AssessmentAmount not extracted")
				}
				if *c.AssessmentAmount != tt.wantAmount {
					t.Errorf("AssessmentAmount = %v, want %v", *c.AssessmentAmount, tt.wantAmount)
				}
			} else if c.AssessmentAmount != nil {
				t.Errorf("AssessmentAmount = %v, want nil", *c.AssessmentAmount)
			}
		})
	}
}

func TestExtractConcernInfoNeverClears(t *testing.T) {
	c := NewContext("s1", "c1", wednesday)
	ExtractConcernInfo(c, "residential property in travis county worth $300,000")

	ExtractConcernInfo(c, "actually let me think about it")
	if c.PropertyType != "residential" || c.County != "Travis" || c.AssessmentAmount == nil {
		t.Errorf("empty match cleared slots: %+v", c)
	}

	// A later match overwrites.
	ExtractConcernInfo(c, "sorry, it's a commercial property in dallas")
	if c.PropertyType != "commercial" {
		t.Errorf("PropertyType = %q, want commercial", c.PropertyType)
	}
	if c.County != "Dallas" {
		t.Errorf("County = %q, want Dallas", c.County)
	}
}

func TestExtractBookingDetails(t *testing.T) {
	t.Run("name and phone together", func(t *testing.T) {
		c := NewContext("s1", "c1", wednesday)
		ExtractBookingDetails(c, "My name is John Smith, call me at 9876543210")
		if c.CustomerName != "John Smith" {
			t.Errorf("CustomerName = %q, want John Smith", c.CustomerName)
		}
		if c.Phone != "9876543210" {
			t.Errorf("Phone = %q, want 9876543210", c.Phone)
		}
		if c.PostalCode != "" {
			t.Errorf("PostalCode = %q, phone digits misread as postal code", c.PostalCode)
		}
	})

	t.Run("phone and postal in one message", func(t *testing.T) {
		c := NewContext("s1", "c1", wednesday)
		ExtractBookingDetails(c, "9876543210 and my pin is 560001")
		if c.Phone != "9876543210" {
			t.Errorf("Phone = %q", c.Phone)
		}
		if c.PostalCode != "560001" {
			t.Errorf("PostalCode = %q, want 560001", c.PostalCode)
		}
	})

	t.Run("name lead-in variants", func(t *testing.T) {
		for message, want := range map[string]string{
			"I'm Priya Sharma":            "Priya Sharma",
			"this is Robert":              "Robert",
			"call me Ana María":           "Ana María",
			"i am looking for assistance": "",
		} {
			c := NewContext("s1", "c1", wednesday)
			ExtractBookingDetails(c, message)
			if c.CustomerName != want {
				t.Errorf("ExtractBookingDetails(%q) name = %q, want %q", message, c.CustomerName, want)
			}
		}
	})

	t.Run("service type selection", func(t *testing.T) {
		c := NewContext("s1", "c1", wednesday)
		ExtractBookingDetails(c, "I'd prefer an office consultation")
		if c.ServiceType != ServiceOfficeConsultation {
			t.Errorf("ServiceType = %q, want %q", c.ServiceType, ServiceOfficeConsultation)
		}
	})

	t.Run("address captured only for property visit", func(t *testing.T) {
		c := NewContext("s1", "c1", wednesday)
		ExtractBookingDetails(c, "please visit, my address is 42 Oak Street, Houston")
		if c.ServiceType != ServicePropertyVisit {
			t.Fatalf("ServiceType = %q, want %q", c.ServiceType, ServicePropertyVisit)
		}
		if c.Address == "" {
			t.Error("Address not extracted for property visit")
		}

		other := NewContext("s2", "c1", wednesday)
		ExtractBookingDetails(other, "office consultation, address is 42 Oak Street")
		if other.Address != "" {
			t.Errorf("Address = %q, want empty for office consultation", other.Address)
		}
	})
}
