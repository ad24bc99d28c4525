package entity

// Fixed option lists offered by the dashboard filters and entry forms.
var (
	DefaultCategories = []string{
		"Groceries", "Electricity", "Gas", "Medicines", "Vehicle Maintenance",
		"Clothes", "Trips/Vacations", "Housekeeping", "Loan", "Insurance",
		"House Maintenance",
	}

	Lenders = []string{
		"HDFC Bank", "ICICI Bank", "SBI", "Axis Bank", "Kotak Mahindra",
		"Bajaj Finance", "Paytm Loans", "IndusInd Bank", "Yes Bank", "HSBC",
		"Standard Chartered", "Personal Lender",
	}

	InsuranceProviders = []string{
		"LIC", "HDFC Ergo", "ICICI Lombard", "SBI Life", "Max Bupa",
		"Bajaj Allianz", "Reliance General", "Star Health", "Tata AIG",
		"Future Generali", "Oriental Insurance",
	}

	LoanCategories = []string{
		"Home Loan", "Personal Loan", "Education Loan", "Car Loan",
		"Gold Loan", "Business Loan", "Agriculture Loan",
	}

	PolicyTypes = []string{
		"Health", "Life", "Vehicle", "Home", "Travel", "Accident", "Business",
	}
)
